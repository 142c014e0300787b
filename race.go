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

// Race completes with the first input to complete, success or failure,
// and ignores the rest. It is not part of the core collection
// combinators; it supplements them the way the predecessor module's
// Select waits on the first of several promises to settle.
//
// Empty input is a programming error, unlike the other combinators:
// there is no sensible "first of zero" value.
func Race[T any](inputs []*Future[T], executor *Executor) *Future[T] {
	if len(inputs) == 0 {
		panic("asyncore: Race called with no inputs")
	}

	p := NewPromise[T]()
	winner := p.Future()
	pool := NewReleasePool()

	for _, idx := range dispatchOrder(len(inputs)) {
		h := inputs[idx].MakeFinalHandler(executor, func(res Fallible[T]) {
			p.Complete(res)
		})
		pool.Insert(h)
	}

	p.NotifyDrain(pool.Drain)
	return winner
}
