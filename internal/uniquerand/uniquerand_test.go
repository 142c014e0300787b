package uniquerand

import "testing"

var ranges = []struct {
	name string
	n    int
}{
	{name: "default", n: -1},
	{name: "range 32", n: 32},
	{name: "range 64", n: 64},
	{name: "range 256", n: 256},
	{name: "range 1024", n: 1024},
}

func TestIndexGetNeverRepeatsAndCoversTheRange(t *testing.T) {
	for _, tt := range ranges {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[int]struct{}{}

			var ix Index
			ix.Reset(tt.n)

			for n, ok := ix.Get(); ok; n, ok = ix.Get() {
				if _, dup := seen[n]; dup {
					t.Fatalf("Get() returned %d twice", n)
				}
				seen[n] = struct{}{}
			}

			want := tt.n
			if want <= 0 {
				want = defRange
			}
			if len(seen) != want {
				t.Fatalf("Get() produced %d numbers, want %d", len(seen), want)
			}
		})
	}
}

func BenchmarkIndexGet(b *testing.B) {
	for _, bm := range ranges {
		b.Run(bm.name, func(b *testing.B) {
			var ix Index
			ix.Reset(bm.n)

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ix.Get()
			}
		})
	}
}
