// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asyncore

import (
	"errors"
	"testing"
)

func TestJoinedSucceedsInInputOrder(t *testing.T) {
	inputs := []*Future[int]{
		Succeeded(1),
		Succeeded(2),
		Succeeded(3),
	}
	res := Joined(inputs, Default()).Wait()
	if !res.Ok() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	if got := res.Val(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestJoinedFailsWithFirstObservedFailure(t *testing.T) {
	wantErr := errors.New("boom")
	inputs := []*Future[int]{
		Succeeded(1),
		Failed[int](wantErr),
		Succeeded(3),
	}
	res := Joined(inputs, Default()).Wait()
	if res.Ok() || !errors.Is(res.Err(), wantErr) {
		t.Fatalf("got %v, want Failure(%v)", res, wantErr)
	}
}

func TestJoinedEmptyInputSucceedsImmediately(t *testing.T) {
	res := Joined([]*Future[int](nil), Default()).Wait()
	if !res.Ok() || len(res.Val()) != 0 {
		t.Fatalf("got %v, want Success([])", res)
	}
}

func TestReduceOrderedSumsInOrder(t *testing.T) {
	inputs := []*Future[int]{Succeeded(1), Succeeded(2), Succeeded(3)}
	res := Reduce(inputs, Default(), 0, true, func(acc, v int) (int, error) {
		return acc + v, nil
	}).Wait()
	if !res.Ok() || res.Val() != 6 {
		t.Fatalf("got %v, want Success(6)", res)
	}
}

func TestReduceUnorderedSumsDeterministically(t *testing.T) {
	inputs := []*Future[int]{Succeeded(1), Succeeded(2), Succeeded(3)}
	res := Reduce(inputs, Default(), 0, false, func(acc, v int) (int, error) {
		return acc + v, nil
	}).Wait()
	if !res.Ok() || res.Val() != 6 {
		t.Fatalf("got %v, want Success(6)", res)
	}
}

func TestAsyncMapSucceedsInInputOrder(t *testing.T) {
	items := []int{1, 2, 3, 4}
	res := AsyncMap(items, Default(), func(v int) (int, error) {
		return v * v, nil
	}).Wait()
	if !res.Ok() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	want := []int{1, 4, 9, 16}
	got := res.Val()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAsyncMapFailsOnFirstRaise(t *testing.T) {
	wantErr := errors.New("bad item")
	items := []int{1, 2, 3}
	res := AsyncMap(items, Default(), func(v int) (int, error) {
		if v == 2 {
			return 0, wantErr
		}
		return v, nil
	}).Wait()
	if res.Ok() {
		t.Fatal("expected failure")
	}
}

func TestAsyncFlatMapSucceedsInInputOrder(t *testing.T) {
	items := []int{1, 2, 3}
	res := AsyncFlatMap(items, Default(), func(v int) (*Future[int], error) {
		return Succeeded(v * 10), nil
	}).Wait()
	if !res.Ok() {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	want := []int{10, 20, 30}
	got := res.Val()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRacePicksFirstSettled(t *testing.T) {
	slow := NewPromise[int]()
	fast := Succeeded(1)
	res := Race([]*Future[int]{slow.Future(), fast}, Immediate()).Wait()
	if !res.Ok() || res.Val() != 1 {
		t.Fatalf("got %v, want Success(1)", res)
	}
}
