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
	"log/slog"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/asmsh/asyncore/asyncoremetrics"
)

var contextSeq atomic.Uint64

// Completable is anything ExecutionContext.AddDependent can bind to
// the context's lifetime. *Future[T] implements it. It is distinct
// from Cancellable: a context deallocates its dependents with
// ErrContextDeallocated, not ErrCancelled.
type Completable interface {
	IsCompleted() bool
	CancelBecauseOfDeallocatedContext()
}

// ExecutionContext is a collaborator identity: it owns an Executor for
// default work placement and a ReleasePool for anchoring dependent
// handlers, and it binds dependent Futures to its own lifetime.
//
// Destroying a context (Destroy) fails every still-pending dependent
// with ErrContextDeallocated, then drains the release pool. A callback
// that closes over a context, but must not keep it alive by doing so,
// should close over WeakSelf() instead and call Value on it, inside
// the callback, to recover a live *ExecutionContext; Value returns nil
// once the context has been collected.
type ExecutionContext struct {
	id       uint64
	executor *Executor
	pool     *ReleasePool
	log      *slog.Logger

	mu         sync.Mutex
	destroyed  bool
	dependents []Completable
}

// ExecutionContextOption configures a new ExecutionContext.
type ExecutionContextOption func(*ExecutionContext)

// WithLogger attaches a structured logger for debug-level lifecycle
// events (context creation/destruction, dependent cancellation). A nil
// logger, or never calling WithLogger, disables logging.
func WithLogger(l *slog.Logger) ExecutionContextOption {
	return func(c *ExecutionContext) { c.log = l }
}

// WithExecutor overrides the context's default Executor. Primary() is
// used if this option is not given.
func WithExecutor(e *Executor) ExecutionContextOption {
	return func(c *ExecutionContext) { c.executor = e }
}

// NewExecutionContext returns a new, live ExecutionContext.
func NewExecutionContext(opts ...ExecutionContextOption) *ExecutionContext {
	c := &ExecutionContext{
		id:   contextSeq.Add(1),
		pool: NewReleasePool(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.executor == nil {
		c.executor = Primary()
	}
	if c.log != nil {
		c.log.Debug("asyncore: execution context created", "context_id", c.id)
	}
	return c
}

// Executor returns this context's default Executor.
func (c *ExecutionContext) Executor() *Executor {
	return c.executor
}

// ReleasePool returns the pool used to anchor this context's dependent
// handlers.
func (c *ExecutionContext) ReleasePool() *ReleasePool {
	return c.pool
}

// WeakSelf returns a weak handle to this context. It does not keep the
// context reachable; call Value on the result, inside a callback, to
// recover a live *ExecutionContext, or nil if none remains.
func (c *ExecutionContext) WeakSelf() weak.Pointer[ExecutionContext] {
	return weak.Make(c)
}

// AddDependent registers dependent so that, if this context is
// destroyed before dependent completes, dependent is cancelled (failed
// with ErrContextDeallocated). If dependent has already completed by
// the time Destroy runs, it is left alone.
func (c *ExecutionContext) AddDependent(dependent Completable) {
	if dependent == nil {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		if !dependent.IsCompleted() {
			dependent.CancelBecauseOfDeallocatedContext()
		}
		return
	}
	c.dependents = append(c.dependents, dependent)
	c.mu.Unlock()
}

// Destroy tears this context down: every still-pending dependent fails
// with ErrContextDeallocated, then the release pool drains. Destroy is
// idempotent.
func (c *ExecutionContext) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	dependents := c.dependents
	c.dependents = nil
	c.mu.Unlock()

	cancelled := 0
	for _, d := range dependents {
		if !d.IsCompleted() {
			d.CancelBecauseOfDeallocatedContext()
			cancelled++
		}
	}

	c.pool.Drain()
	asyncoremetrics.RecordContextDeallocated()

	if c.log != nil {
		c.log.Debug("asyncore: execution context destroyed",
			"context_id", c.id,
			"dependents_cancelled", cancelled,
		)
	}
}

// IsDestroyed reports whether Destroy has run.
func (c *ExecutionContext) IsDestroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}
