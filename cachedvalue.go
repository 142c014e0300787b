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
	"sync"
	"weak"

	"github.com/asmsh/asyncore/asyncoremetrics"
)

// CachedValue is a single-flight recomputation coordinator: the first
// caller to observe a miss triggers missHandler exactly once, and
// every caller until the next Invalidate shares the same-identity
// Future for the result, whether that Future has resolved yet or not.
//
// CachedValue holds its ExecutionContext only weakly, so a cache
// living past its owning context's collection is possible but inert:
// Value still returns a Future that is already cached, and otherwise
// reports ErrContextDeallocated instead of ever invoking missHandler
// again.
type CachedValue[T any] struct {
	weakCtx     weak.Pointer[ExecutionContext]
	missHandler func(live *ExecutionContext) (*Future[T], error)

	mu           sync.Mutex
	cached       *Future[T]
	everComputed bool
}

// NewCachedValue returns a CachedValue bound to ctx. missHandler is
// invoked at most once per miss; a panic inside it is caught and
// reported the same as a returned error.
func NewCachedValue[T any](ctx *ExecutionContext, missHandler func(live *ExecutionContext) (*Future[T], error)) *CachedValue[T] {
	if ctx == nil {
		panic(nilContextPanicMsg)
	}
	if missHandler == nil {
		panic(nilCallbackPanicMsg)
	}
	return &CachedValue[T]{
		weakCtx:     ctx.WeakSelf(),
		missHandler: missHandler,
	}
}

// Value returns the current cached Future, computing it first if this
// is the first call since construction or the last Invalidate. Every
// caller between invalidations receives the identical *Future[T].
func (c *CachedValue[T]) Value() *Future[T] {
	c.mu.Lock()
	if c.cached != nil {
		f := c.cached
		c.mu.Unlock()
		asyncoremetrics.RecordCacheHit()
		return f
	}

	live := c.weakCtx.Value()
	if live == nil || live.IsDestroyed() {
		c.mu.Unlock()
		return Failed[T](ErrContextDeallocated)
	}

	p := NewPromise[T]()
	f := p.Future()
	// cached is set before missHandler ever runs, under the same lock
	// that every Value call checks first: whichever goroutine wins the
	// race to find cached == nil is the only one that ever schedules
	// missHandler, satisfying the at-most-one-outstanding-miss
	// invariant regardless of which executor runs it.
	c.cached = f
	recompute := c.everComputed
	c.everComputed = true
	c.mu.Unlock()

	asyncoremetrics.RecordCacheMiss()
	if recompute {
		asyncoremetrics.RecordCacheRecompute()
	}

	live.Executor().Execute(func() {
		res := FromThunk(func() (*Future[T], error) { return c.missHandler(live) })
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

// Invalidate clears the cache. It does not cancel any in-flight Future
// already handed out; callers still holding it observe its eventual
// completion normally. The next Value call starts a fresh computation
// and returns a different-identity Future.
func (c *CachedValue[T]) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
