// Copyright 2020 Ahmad Sameh(asmsh)
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
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/asmsh/asyncore/asyncoremetrics"
	"github.com/asmsh/asyncore/internal/fate"
)

// FutureHandler is the registration receipt returned by
// (*Future[T]).MakeFinalHandler. Holding it alive keeps the callback
// registered; releasing it — explicitly via Release, or by letting it
// be anchored in nothing and collected — deregisters the callback.
//
// The Future holds handlers via a weak.Pointer to this type, never
// strongly: a FutureHandler whose owner (typically a ReleasePool or an
// ExecutionContext) has gone away is silently dropped when completion
// scans the registry, per spec.md §4.6. This is the direct, idiomatic
// translation of the source's identity-based handler lifetime into a
// reference-counted-but-GC'd language: the handler object's liveness,
// not its explicit deregistration, is what the Future observes.
type FutureHandler struct {
	mu       sync.Mutex
	released bool
}

// Release deregisters the callback this handler was registered with.
// It is idempotent.
func (h *FutureHandler) Release() {
	h.mu.Lock()
	h.released = true
	h.mu.Unlock()
}

func (h *FutureHandler) isReleased() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

type handlerEntry[T any] struct {
	handle   weak.Pointer[FutureHandler]
	executor *Executor
	callback func(Fallible[T])
}

func (e *handlerEntry[T]) dispatch(res Fallible[T]) {
	h := e.handle.Value()
	if h == nil || h.isReleased() {
		return
	}
	e.executor.Execute(func() { e.callback(res) })
}

// futureCore is the single allocation shared by a Future[T] and its
// Promise[T]: the two are different method sets over the same object,
// the way this module's predecessor treats GoPromise as the one
// implementation behind its Promise interface.
type futureCore[T any] struct {
	state fate.State

	mu       sync.Mutex
	handlers []*handlerEntry[T]
	result   Fallible[T]

	done chan struct{}

	liveViews      atomic.Int64
	drainMu        sync.Mutex
	drainFired     bool
	drainCallbacks []func()

	// forwarders anchors handlers registered by CompleteWith against
	// another Future, so the forwarding registration survives for as
	// long as this core itself is reachable.
	forwarders []*FutureHandler

	// upstreamAnchors anchors handlers registered against an upstream
	// Future by derived operators (Map, FlatMap, the combinators), so
	// the registration survives for as long as the downstream Future
	// they feed is itself reachable.
	upstreamAnchors []*FutureHandler
}

func newFutureCore[T any]() *futureCore[T] {
	return &futureCore[T]{done: make(chan struct{})}
}

// Future is the read-only handle to a one-shot value. It is logically
// immutable: once Completed, its state is frozen forever.
type Future[T any] struct {
	core *futureCore[T]
}

// Promise is the write-capability view of the same underlying value as
// its Future. Its Future method returns the read view over that same
// object.
type Promise[T any] struct {
	core *futureCore[T]
}

// NewPromise returns a pending Promise. Call its Future method to hand
// the read side to consumers; each call returns a new handle over the
// same value.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{core: newFutureCore[T]()}
}

// Future returns the read-only handle over this Promise's value.
//
// Each call tracked here contributes to the Promise's consumer
// liveness count: once every Future handle obtained this way becomes
// unreachable without the value ever completing, NotifyDrain callbacks
// fire, the way spec.md §4.6 describes a promise "released without
// ever completing."
func (p *Promise[T]) Future() *Future[T] {
	p.core.liveViews.Add(1)
	f := &Future[T]{core: p.core}
	runtime.AddCleanup(f, (*futureCore[T]).viewReleased, p.core)
	return f
}

func (c *futureCore[T]) viewReleased() {
	if c.liveViews.Add(-1) > 0 {
		return
	}
	if c.state.Load() == fate.Completed {
		return
	}

	c.drainMu.Lock()
	if c.drainFired {
		c.drainMu.Unlock()
		return
	}
	c.drainFired = true
	cbs := c.drainCallbacks
	c.drainCallbacks = nil
	c.drainMu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// alreadyCompleted reports whether the value has reached Completed,
// and if so, the frozen result.
func (c *futureCore[T]) alreadyCompleted() (Fallible[T], bool) {
	if c.state.Load() != fate.Completed {
		return nil, false
	}
	c.mu.Lock()
	res := c.result
	c.mu.Unlock()
	return res, true
}

// MakeFinalHandler registers callback to run on executor when the
// Future completes.
//
// If the Future is already complete, callback is scheduled on executor
// immediately and MakeFinalHandler returns nil — no registration
// happens, matching spec.md §4.6's "no handler object" contract for
// late registrants.
//
// Otherwise, a FutureHandler receipt is returned; the caller must keep
// it alive (typically by anchoring it in a ReleasePool or an
// ExecutionContext) for callback to ever run.
func (f *Future[T]) MakeFinalHandler(executor *Executor, callback func(Fallible[T])) *FutureHandler {
	if callback == nil {
		panic(nilCallbackPanicMsg)
	}
	if executor == nil {
		executor = Immediate()
	}

	if res, ok := f.core.alreadyCompleted(); ok {
		executor.Execute(func() { callback(res) })
		return nil
	}

	handler := &FutureHandler{}
	entry := &handlerEntry[T]{
		handle:   weak.Make(handler),
		executor: executor,
		callback: callback,
	}

	f.core.mu.Lock()
	// re-check under the lock: complete() may have run between the
	// optimistic check above and acquiring the lock.
	if f.core.state.Load() == fate.Completed {
		res := f.core.result
		f.core.mu.Unlock()
		executor.Execute(func() { callback(res) })
		return nil
	}
	f.core.handlers = append(f.core.handlers, entry)
	f.core.mu.Unlock()

	return handler
}

// Wait blocks the calling goroutine until the Future completes and
// returns its Fallible result. It is meant for tests; production code
// should use MakeFinalHandler.
func (f *Future[T]) Wait() Fallible[T] {
	<-f.core.done
	f.core.mu.Lock()
	res := f.core.result
	f.core.mu.Unlock()
	return res
}

// Done returns a channel that is closed once the Future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.core.done
}

// IsCompleted reports whether the Future has completed.
func (f *Future[T]) IsCompleted() bool {
	return f.core.state.Load() == fate.Completed
}

// Cancel fails the Future with ErrCancelled, unless it is already
// completed. It implements Cancellable, so a Future can be registered
// directly with a CancellationToken.
func (f *Future[T]) Cancel() {
	f.core.complete(Failure[T](ErrCancelled))
}

// CancelBecauseOfDeallocatedContext fails the Future with
// ErrContextDeallocated, unless it is already completed. It implements
// Completable, so a Future can be registered directly as an
// ExecutionContext dependent; mirrors Promise's method of the same
// name.
func (f *Future[T]) CancelBecauseOfDeallocatedContext() {
	f.core.complete(Failure[T](ErrContextDeallocated))
}

// Succeed completes the Promise's Future with a successful value. A
// second or later call, to Succeed, Fail, or CompleteWith, is a no-op.
func (p *Promise[T]) Succeed(v T) {
	p.core.complete(Success(v))
}

// Fail completes the Promise's Future with a failure. A second or
// later call is a no-op.
func (p *Promise[T]) Fail(err error) {
	p.core.complete(Failure[T](err))
}

// Complete completes the Promise's Future with res. A second or later
// call is a no-op.
func (p *Promise[T]) Complete(res Fallible[T]) {
	p.core.complete(res)
}

// Cancel fails the Promise's Future with ErrCancelled.
func (p *Promise[T]) Cancel() {
	p.core.complete(Failure[T](ErrCancelled))
}

// CancelBecauseOfDeallocatedContext fails the Promise's Future with
// ErrContextDeallocated.
func (p *Promise[T]) CancelBecauseOfDeallocatedContext() {
	p.core.complete(Failure[T](ErrContextDeallocated))
}

// CompleteWith registers a handler on other that forwards its eventual
// result to this Promise. It is race-safe if other is already
// complete: MakeFinalHandler's own completed-fast-path handles that.
func (p *Promise[T]) CompleteWith(other *Future[T]) {
	executor := Immediate()
	handler := other.MakeFinalHandler(executor, func(res Fallible[T]) {
		p.core.complete(res)
	})
	if handler != nil {
		// anchor the forwarding handler for the lifetime of the target
		// promise: as long as anyone can still observe p's Future, the
		// forwarding registration on other must stay alive.
		p.core.mu.Lock()
		p.core.forwarders = append(p.core.forwarders, handler)
		p.core.mu.Unlock()
	}
}

// NotifyDrain registers callback to run if this Promise's Future is
// released by every consumer without ever completing. If that has
// already happened, callback runs immediately.
func (p *Promise[T]) NotifyDrain(callback func()) {
	if callback == nil {
		return
	}

	c := p.core
	c.drainMu.Lock()
	if c.drainFired {
		c.drainMu.Unlock()
		callback()
		return
	}
	c.drainCallbacks = append(c.drainCallbacks, callback)
	c.drainMu.Unlock()
}

// complete transitions the core from Pending to Completed exactly
// once. Every call after the first is a no-op, including a fail-after-
// succeed or a fail-after-fail, per spec.md §4.6.
func (c *futureCore[T]) complete(res Fallible[T]) {
	if !c.state.BeginComplete() {
		onDoubleComplete("Future")
		return
	}

	// FinishComplete must happen inside the same critical section that
	// captures and clears the handler list: MakeFinalHandler also
	// checks state.Load() under this lock before deciding whether to
	// append to, or skip, the handler registry. Moving the two out of
	// one critical section would open a window where a concurrent
	// registration lands in a handlers slice that has already been
	// captured here and will never be looked at again.
	c.mu.Lock()
	handlers := c.handlers
	c.handlers = nil
	c.result = res
	c.state.FinishComplete()
	c.mu.Unlock()

	close(c.done)

	if !res.Ok() && (res.Err() == ErrCancelled) {
		asyncoremetrics.RecordFutureCancelled()
	} else {
		asyncoremetrics.RecordFutureCompleted()
	}

	for _, h := range handlers {
		h.dispatch(res)
	}
}
