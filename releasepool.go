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

// Releasable is anything a ReleasePool can hold and release together.
// FutureHandler implements it.
type Releasable interface {
	Release()
}

// ReleasePool is a scoped lifetime anchor: a bag of Releasable items
// that are all released together, either explicitly via Drain, or
// implicitly whenever the owning collaborator goes away and calls
// Drain from its own teardown path (see ExecutionContext).
//
// Inserting after the pool has already drained releases the item
// immediately, inline; drain callbacks registered earlier have already
// run and are not run again. A callback registered with NotifyDrain
// after the drain runs immediately, inline.
type ReleasePool struct {
	mu      sync.Mutex
	drained bool
	items   []Releasable
	onDrain []func()
}

// NewReleasePool returns an empty, not-yet-drained pool.
func NewReleasePool() *ReleasePool {
	return &ReleasePool{}
}

// Insert adds item to the pool. If the pool has already drained, item
// is released immediately instead of being retained.
func (p *ReleasePool) Insert(item Releasable) {
	if item == nil {
		return
	}

	p.mu.Lock()
	if p.drained {
		p.mu.Unlock()
		item.Release()
		return
	}
	p.items = append(p.items, item)
	p.mu.Unlock()
}

// NotifyDrain registers cb to run when the pool drains. If the pool
// has already drained, cb runs immediately, inline.
func (p *ReleasePool) NotifyDrain(cb func()) {
	if cb == nil {
		return
	}

	p.mu.Lock()
	if p.drained {
		p.mu.Unlock()
		cb()
		return
	}
	p.onDrain = append(p.onDrain, cb)
	p.mu.Unlock()
}

// Drain releases every item currently in the pool and runs every
// registered drain callback, exactly once. Calling Drain again is a
// no-op.
func (p *ReleasePool) Drain() {
	p.mu.Lock()
	if p.drained {
		p.mu.Unlock()
		return
	}
	p.drained = true
	items := p.items
	callbacks := p.onDrain
	p.items = nil
	p.onDrain = nil
	p.mu.Unlock()

	for _, item := range items {
		item.Release()
	}
	for _, cb := range callbacks {
		cb()
	}
}
