// Package uniquerand draws unique random indices from a fixed range,
// without repetition and without allocating a permutation slice
// upfront. combinators.go's dispatchOrder uses it to visit a finite
// set of futures in a randomized, non-repeating order, so that
// "handler order is unspecified" is an actual property under test
// instead of an accident of iterating a slice front to back.
package uniquerand

import "math/rand"

// defRandSrc is the random generator used by default: a function that
// takes an exclusive upper bound and returns a number in [0, n).
var defRandSrc = rand.Intn

// defRange is the range used if Reset is never called.
const defRange = 10

const blockSize = 32

type block = uint32

// Index draws unique random numbers from a range without repetition.
// It tracks every number already returned in a bitset so a repeated
// draw from the underlying source falls through to a linear scan for
// the first unused number instead of retrying the draw indefinitely.
// The zero value draws from [0, defRange) until Reset is called.
type Index struct {
	n      int     // exclusive upper bound
	first  block   // bits for indices [0, blockSize)
	rest   []block // bits for indices [blockSize, n), one block per 32
}

// Reset sets the exclusive upper bound and discards every number
// already drawn. A non-positive n falls back to the default range.
func (ix *Index) Reset(n int) {
	if n <= 0 {
		n = defRange
	}
	ix.n = n
	ix.first = 0
	ix.rest = nil

	extra := n / blockSize
	if n%blockSize == 0 {
		extra--
	}
	if extra > 0 {
		ix.rest = make([]block, extra)
	}
}

func (ix *Index) bound() int {
	if ix.n > 0 {
		return ix.n
	}
	return defRange
}

func (ix *Index) blockFor(n int) (blockIdx int, b, mask, masked block) {
	blockIdx = n / blockSize
	b = ix.first
	if blockIdx > 0 {
		b = ix.rest[blockIdx-1]
	}
	mask = block(1 << (n % blockSize))
	masked = b & mask
	return
}

// Get draws a number not previously returned since the last Reset. ok
// is false once every number in the range has been drawn.
func (ix *Index) Get() (n int, ok bool) {
	draw := defRandSrc(ix.bound())

	blockIdx, b, mask, masked := ix.blockFor(draw)
	if masked != 0 {
		// draw collided with a number already returned; scan instead.
		return ix.scan()
	}

	if blockIdx > 0 {
		ix.rest[blockIdx-1] = b | mask
	} else {
		ix.first = b | mask
	}
	return draw, true
}

func (ix *Index) scan() (n int, ok bool) {
	for j := 0; j < blockSize; j++ {
		mask := block(1 << j)
		if ix.first&mask != 0 {
			continue
		}
		ix.first |= mask
		if j < ix.bound() {
			return j, true
		}
		return 0, false
	}

	for i, b := range ix.rest {
		for j := 0; j < blockSize; j++ {
			mask := block(1 << j)
			if b&mask != 0 {
				continue
			}
			ix.rest[i] = b | mask
			n = (i+1)*blockSize + j
			if n < ix.bound() {
				return n, true
			}
			return 0, false
		}
	}

	return 0, false
}
