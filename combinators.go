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
	"sync/atomic"

	"github.com/asmsh/asyncore/internal/locking"
	"github.com/asmsh/asyncore/internal/uniquerand"
)

// dispatchOrder returns a permutation of [0, n) to visit a collection
// in, using uniquerand so that "handler order of invocation is
// unspecified" is an actual property observed by tests, not just an
// accident of registering handlers 0..n-1 in order.
func dispatchOrder(n int) []int {
	order := make([]int, n)
	if n == 0 {
		return order
	}
	var gen uniquerand.Index
	gen.Reset(n)
	for i := range order {
		v, ok := gen.Get()
		if !ok {
			// exhausted (shouldn't happen for a range of exactly n),
			// fall back to identity for the remaining slots.
			v = i
		}
		order[i] = v
	}
	return order
}

// Joined completes with every input's successful value, in input
// order, once all of them succeed. On the first observed failure it
// fails the aggregate with that error and drains the release pool
// backing the still-pending inputs' handlers, so their eventual results
// are ignored. The pool also drains if the aggregate Future becomes
// unreachable before it completes.
func Joined[T any](inputs []*Future[T], executor *Executor) *Future[[]T] {
	if len(inputs) == 0 {
		return Succeeded[[]T](nil)
	}

	p := NewPromise[[]T]()
	agg := p.Future()
	pool := NewReleasePool()

	results := make([]T, len(inputs))
	var lock locking.Spin
	remaining := len(inputs)
	failed := false

	for _, idx := range dispatchOrder(len(inputs)) {
		i := idx
		h := inputs[i].MakeFinalHandler(executor, func(res Fallible[T]) {
			lock.Lock()
			if failed {
				lock.Unlock()
				return
			}
			if !res.Ok() {
				failed = true
				lock.Unlock()
				p.Fail(res.Err())
				pool.Drain()
				return
			}
			results[i] = res.Val()
			remaining--
			done := remaining == 0
			lock.Unlock()
			if done {
				p.Succeed(results)
			}
		})
		if h != nil {
			pool.Insert(h)
		}
	}

	p.NotifyDrain(pool.Drain)
	return agg
}

// Reduce folds a collection of Futures into one accumulated value.
//
// When ordered is true, it waits for Joined and folds sequentially, on
// executor, in input order.
//
// When ordered is false, it installs one handler per input on a
// derived serial executor and folds in arrival order; the accumulator
// is unguarded by any explicit lock because the serial executor itself
// provides the exclusion (spec.md's documented equivalence, valid only
// because the serial executor here never re-enters combine).
func Reduce[T, A any](inputs []*Future[T], executor *Executor, initial A, ordered bool, combine func(A, T) (A, error)) *Future[A] {
	if combine == nil {
		panic(nilCallbackPanicMsg)
	}
	if len(inputs) == 0 {
		return Succeeded(initial)
	}

	if ordered {
		return FlatMap(Joined(inputs, executor), executor, func(vals []T) (*Future[A], error) {
			acc := initial
			for _, v := range vals {
				next, err := combine(acc, v)
				if err != nil {
					return nil, err
				}
				acc = next
			}
			return Succeeded(acc), nil
		})
	}

	p := NewPromise[A]()
	agg := p.Future()
	pool := NewReleasePool()

	serial := executor.DerivedSerial()
	acc := initial
	remaining := len(inputs)
	canContinue := true

	for _, idx := range dispatchOrder(len(inputs)) {
		h := inputs[idx].MakeFinalHandler(serial, func(res Fallible[T]) {
			if !canContinue {
				return
			}
			if !res.Ok() {
				canContinue = false
				p.Fail(res.Err())
				return
			}
			next, err := combine(acc, res.Val())
			if err != nil {
				canContinue = false
				p.Fail(newUserError(err))
				return
			}
			acc = next
			remaining--
			if remaining == 0 {
				p.Succeed(acc)
			}
		})
		pool.Insert(h)
	}

	p.NotifyDrain(pool.Drain)
	return agg
}

// AsyncMap schedules f(item) once per input, concurrently on executor,
// and completes with the transformed results in input order once every
// task finishes. The first raise from f wins the aggregate failure;
// once the aggregate is drained (no consumer left), can_continue is
// cleared so further transforms are elided instead of run for nothing.
func AsyncMap[I, T any](items []I, executor *Executor, f func(I) (T, error)) *Future[[]T] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}
	if len(items) == 0 {
		return Succeeded[[]T](nil)
	}

	p := NewPromise[[]T]()
	agg := p.Future()

	results := make([]T, len(items))
	var lock locking.Spin
	remaining := len(items)
	var canContinue atomic.Bool
	canContinue.Store(true)

	p.NotifyDrain(func() { canContinue.Store(false) })

	for _, idx := range dispatchOrder(len(items)) {
		i := idx
		item := items[i]
		executor.Execute(func() {
			if !canContinue.Load() {
				return
			}
			res := FromThunk(func() (T, error) { return f(item) })
			lock.Lock()
			if !canContinue.Load() {
				lock.Unlock()
				return
			}
			if !res.Ok() {
				canContinue.Store(false)
				lock.Unlock()
				p.Fail(res.Err())
				return
			}
			results[i] = res.Val()
			remaining--
			done := remaining == 0
			lock.Unlock()
			if done {
				p.Succeed(results)
			}
		})
	}

	return agg
}

// AsyncFlatMap schedules f(item) once per input on executor; each call
// produces a Future rather than a plain value, and the aggregate waits
// for every produced Future to settle. Completion semantics otherwise
// match AsyncMap.
func AsyncFlatMap[I, T any](items []I, executor *Executor, f func(I) (*Future[T], error)) *Future[[]T] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}
	if len(items) == 0 {
		return Succeeded[[]T](nil)
	}

	p := NewPromise[[]T]()
	agg := p.Future()
	pool := NewReleasePool()

	results := make([]T, len(items))
	var lock locking.Spin
	remaining := len(items)
	failed := false

	for _, idx := range dispatchOrder(len(items)) {
		i := idx
		item := items[i]
		executor.Execute(func() {
			lock.Lock()
			if failed {
				lock.Unlock()
				return
			}
			lock.Unlock()

			res := FromThunk(func() (*Future[T], error) { return f(item) })
			if !res.Ok() {
				lock.Lock()
				if !failed {
					failed = true
					lock.Unlock()
					p.Fail(res.Err())
					return
				}
				lock.Unlock()
				return
			}
			inner := res.Val()
			if inner == nil {
				lock.Lock()
				if !failed {
					failed = true
					lock.Unlock()
					p.Fail(newUserError(errNilThunkFuture))
					return
				}
				lock.Unlock()
				return
			}

			h := inner.MakeFinalHandler(Immediate(), func(r Fallible[T]) {
				lock.Lock()
				if failed {
					lock.Unlock()
					return
				}
				if !r.Ok() {
					failed = true
					lock.Unlock()
					p.Fail(r.Err())
					return
				}
				results[i] = r.Val()
				remaining--
				done := remaining == 0
				lock.Unlock()
				if done {
					p.Succeed(results)
				}
			})
			pool.Insert(h)
		})
	}

	p.NotifyDrain(pool.Drain)
	return agg
}

// JoinedContext is Joined's contextual variant: it weakly captures
// ctx, fails the aggregate with ErrContextDeallocated if ctx is
// already gone when called, and registers the aggregate as a
// dependent of ctx so ctx's destruction cancels a still-pending join.
func JoinedContext[T any](ctx *ExecutionContext, inputs []*Future[T], executor *Executor) *Future[[]T] {
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if live := ctx.WeakSelf().Value(); live == nil || live.IsDestroyed() {
		return Failed[[]T](ErrContextDeallocated)
	}
	agg := Joined(inputs, executor)
	ctx.AddDependent(agg)
	return agg
}

// AsyncMapContext is AsyncMap's contextual variant, with the same
// liveness check and dependent registration as JoinedContext.
func AsyncMapContext[I, T any](ctx *ExecutionContext, items []I, executor *Executor, f func(I) (T, error)) *Future[[]T] {
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if live := ctx.WeakSelf().Value(); live == nil || live.IsDestroyed() {
		return Failed[[]T](ErrContextDeallocated)
	}
	agg := AsyncMap(items, executor, f)
	ctx.AddDependent(agg)
	return agg
}

// AsyncFlatMapContext is AsyncFlatMap's contextual variant, with the
// same liveness check and dependent registration as JoinedContext.
func AsyncFlatMapContext[I, T any](ctx *ExecutionContext, items []I, executor *Executor, f func(I) (*Future[T], error)) *Future[[]T] {
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if live := ctx.WeakSelf().Value(); live == nil || live.IsDestroyed() {
		return Failed[[]T](ErrContextDeallocated)
	}
	agg := AsyncFlatMap(items, executor, f)
	ctx.AddDependent(agg)
	return agg
}
