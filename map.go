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

// Map registers f to run on executor once src completes successfully,
// and returns a downstream Future for its result. A failure or
// cancellation on src propagates downstream unchanged, without ever
// calling f.
func Map[T, U any](src *Future[T], executor *Executor, f func(T) (U, error)) *Future[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	p := NewPromise[U]()
	down := p.Future()
	handler := src.MakeFinalHandler(executor, func(res Fallible[T]) {
		if !res.Ok() {
			p.Fail(res.Err())
			return
		}
		p.Complete(FromThunk(func() (U, error) { return f(res.Val()) }))
	})
	anchorHandler(down, handler)
	return down
}

// FlatMap is Map's flattening counterpart: f itself returns a Future,
// and the downstream Future forwards that inner Future's eventual
// result instead of wrapping it a second time.
func FlatMap[T, U any](src *Future[T], executor *Executor, f func(T) (*Future[U], error)) *Future[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	p := NewPromise[U]()
	down := p.Future()
	handler := src.MakeFinalHandler(executor, func(res Fallible[T]) {
		if !res.Ok() {
			p.Fail(res.Err())
			return
		}
		inner := FromThunk(func() (*Future[U], error) { return f(res.Val()) })
		if !inner.Ok() {
			p.Fail(inner.Err())
			return
		}
		next := inner.Val()
		if next == nil {
			p.Fail(newUserError(errNilThunkFuture))
			return
		}
		p.CompleteWith(next)
	})
	anchorHandler(down, handler)
	return down
}

// MapContext is Map's contextual variant: f additionally receives the
// live context, the downstream Future is registered as a dependent of
// ctx, and the closure that runs f holds ctx only weakly, failing with
// ErrContextDeallocated if ctx is gone by the time src completes.
func MapContext[T, U any](ctx *ExecutionContext, src *Future[T], executor *Executor, f func(live *ExecutionContext, v T) (U, error)) *Future[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if executor == nil {
		executor = ctx.Executor()
	}

	p := NewPromise[U]()
	down := p.Future()
	ctx.AddDependent(down)
	weakCtx := ctx.WeakSelf()

	handler := src.MakeFinalHandler(executor, func(res Fallible[T]) {
		if !res.Ok() {
			p.Fail(res.Err())
			return
		}
		live := weakCtx.Value()
		if live == nil || live.IsDestroyed() {
			p.CancelBecauseOfDeallocatedContext()
			return
		}
		p.Complete(FromThunk(func() (U, error) { return f(live, res.Val()) }))
	})
	anchorHandler(down, handler)
	return down
}

// FlatMapContext combines MapContext's liveness check with FlatMap's
// flattening.
func FlatMapContext[T, U any](ctx *ExecutionContext, src *Future[T], executor *Executor, f func(live *ExecutionContext, v T) (*Future[U], error)) *Future[U] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if executor == nil {
		executor = ctx.Executor()
	}

	p := NewPromise[U]()
	down := p.Future()
	ctx.AddDependent(down)
	weakCtx := ctx.WeakSelf()

	handler := src.MakeFinalHandler(executor, func(res Fallible[T]) {
		if !res.Ok() {
			p.Fail(res.Err())
			return
		}
		live := weakCtx.Value()
		if live == nil || live.IsDestroyed() {
			p.CancelBecauseOfDeallocatedContext()
			return
		}
		inner := FromThunk(func() (*Future[U], error) { return f(live, res.Val()) })
		if !inner.Ok() {
			p.Fail(inner.Err())
			return
		}
		next := inner.Val()
		if next == nil {
			p.Fail(newUserError(errNilThunkFuture))
			return
		}
		p.CompleteWith(next)
	})
	anchorHandler(down, handler)
	return down
}

// anchorHandler keeps handler, the receipt for a registration made
// against an upstream Future on down's behalf, alive for exactly as
// long as down's own core is reachable. MakeFinalHandler already
// returns nil once the upstream Future is complete, so handler is nil
// in that case and there is nothing to anchor.
func anchorHandler[U any](down *Future[U], handler *FutureHandler) {
	if handler == nil {
		return
	}
	down.core.mu.Lock()
	down.core.upstreamAnchors = append(down.core.upstreamAnchors, handler)
	down.core.mu.Unlock()
}
