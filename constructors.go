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
	"time"
)

var errNilThunkFuture = errors.New("asyncore: thunk returned a nil future")

// newCompletedFuture builds a Future that is complete at construction,
// skipping the promise/handler machinery entirely: there is nothing to
// schedule and no handler can ever have registered against it. This is
// the single-Future-type fast path spec.md §9 asks for in place of a
// separate already-complete subtype.
func newCompletedFuture[T any](res Fallible[T]) *Future[T] {
	core := newFutureCore[T]()
	core.state.BeginComplete()
	core.result = res
	core.state.FinishComplete()
	close(core.done)
	return &Future[T]{core: core}
}

// Succeeded returns an already-completed, successful Future.
func Succeeded[T any](v T) *Future[T] {
	return newCompletedFuture(Success(v))
}

// Failed returns an already-completed, failed Future.
func Failed[T any](err error) *Future[T] {
	return newCompletedFuture(Failure[T](err))
}

// Submit schedules thunk on executor and returns a Future for its
// result. A panic inside thunk is caught and reported as a Failure,
// the same as a returned error.
func Submit[T any](executor *Executor, thunk func() (T, error)) *Future[T] {
	if thunk == nil {
		panic(nilThunkPanicMsg)
	}
	if executor == nil {
		executor = Default()
	}

	p := NewPromise[T]()
	f := p.Future()
	executor.Execute(func() {
		p.Complete(FromThunk(thunk))
	})
	return f
}

// SubmitFuture schedules thunk on executor; thunk itself produces a
// Future, and the returned Future forwards that inner Future's
// eventual result (flattening one level of Future<Future<T>>).
func SubmitFuture[T any](executor *Executor, thunk func() (*Future[T], error)) *Future[T] {
	if thunk == nil {
		panic(nilThunkPanicMsg)
	}
	if executor == nil {
		executor = Default()
	}

	p := NewPromise[T]()
	f := p.Future()
	executor.Execute(func() {
		res := FromThunk(thunk)
		if !res.Ok() {
			p.Fail(res.Err())
			return
		}
		inner := res.Val()
		if inner == nil {
			p.Fail(newUserError(errNilThunkFuture))
			return
		}
		p.CompleteWith(inner)
	})
	return f
}

// SubmitContext schedules thunk on executor (ctx's own executor, if
// executor is nil), checking ctx's liveness at dispatch time rather
// than at call time: if ctx has been destroyed by the time executor
// runs the block, thunk never runs and the Future fails with
// ErrContextDeallocated. The closure passed to executor holds ctx only
// weakly, per the liveness-check invariant in §4.5.
func SubmitContext[T any](ctx *ExecutionContext, executor *Executor, thunk func(live *ExecutionContext) (T, error)) *Future[T] {
	if thunk == nil {
		panic(nilThunkPanicMsg)
	}
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if executor == nil {
		executor = ctx.Executor()
	}

	p := NewPromise[T]()
	f := p.Future()
	ctx.AddDependent(f)
	weakCtx := ctx.WeakSelf()

	executor.Execute(func() {
		live := weakCtx.Value()
		if live == nil || live.IsDestroyed() {
			p.CancelBecauseOfDeallocatedContext()
			return
		}
		p.Complete(FromThunk(func() (T, error) { return thunk(live) }))
	})
	return f
}

// SubmitContextFuture is SubmitContext's flattening counterpart:
// thunk produces a Future, and the result forwards that inner
// Future's eventual completion.
func SubmitContextFuture[T any](ctx *ExecutionContext, executor *Executor, thunk func(live *ExecutionContext) (*Future[T], error)) *Future[T] {
	if thunk == nil {
		panic(nilThunkPanicMsg)
	}
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if executor == nil {
		executor = ctx.Executor()
	}

	p := NewPromise[T]()
	f := p.Future()
	ctx.AddDependent(f)
	weakCtx := ctx.WeakSelf()

	executor.Execute(func() {
		live := weakCtx.Value()
		if live == nil || live.IsDestroyed() {
			p.CancelBecauseOfDeallocatedContext()
			return
		}
		res := FromThunk(func() (*Future[T], error) { return thunk(live) })
		if !res.Ok() {
			p.Fail(res.Err())
			return
		}
		inner := res.Val()
		if inner == nil {
			p.Fail(newUserError(errNilThunkFuture))
			return
		}
		p.CompleteWith(inner)
	})
	return f
}

// SubmitDelayed behaves like Submit, except the thunk is only
// scheduled after delay elapses. If token fires before then, the
// returned Future fails with ErrCancelled and thunk never runs, since
// token registers the Future as one of its Cancellables and firing a
// token completes every registrant synchronously.
func SubmitDelayed[T any](executor *Executor, delay time.Duration, token *CancellationToken, thunk func() (T, error)) *Future[T] {
	if thunk == nil {
		panic(nilThunkPanicMsg)
	}
	if executor == nil {
		executor = Default()
	}

	p := NewPromise[T]()
	f := p.Future()
	if token != nil {
		token.Add(f)
	}

	executor.ExecuteAfter(delay, func() {
		if f.IsCompleted() {
			return
		}
		p.Complete(FromThunk(thunk))
	})
	return f
}

// SubmitDelayedContext combines SubmitDelayed's timer-and-token
// behavior with SubmitContext's dispatch-time liveness check.
func SubmitDelayedContext[T any](ctx *ExecutionContext, executor *Executor, delay time.Duration, token *CancellationToken, thunk func(live *ExecutionContext) (T, error)) *Future[T] {
	if thunk == nil {
		panic(nilThunkPanicMsg)
	}
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if executor == nil {
		executor = ctx.Executor()
	}

	p := NewPromise[T]()
	f := p.Future()
	ctx.AddDependent(f)
	if token != nil {
		token.Add(f)
	}
	weakCtx := ctx.WeakSelf()

	executor.ExecuteAfter(delay, func() {
		if f.IsCompleted() {
			return
		}
		live := weakCtx.Value()
		if live == nil || live.IsDestroyed() {
			p.CancelBecauseOfDeallocatedContext()
			return
		}
		p.Complete(FromThunk(func() (T, error) { return thunk(live) }))
	})
	return f
}
