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
	"sync/atomic"
	"testing"
)

func TestCachedValueReturnsSameIdentityBetweenInvalidations(t *testing.T) {
	ctx := NewExecutionContext()
	defer ctx.Destroy()

	var calls atomic.Int32
	c := NewCachedValue(ctx, func(live *ExecutionContext) (*Future[int], error) {
		calls.Add(1)
		return Succeeded(int(calls.Load())), nil
	})

	a := c.Value()
	b := c.Value()
	if a != b {
		t.Fatal("Value returned different identities before Invalidate")
	}

	// the miss handler runs on the context's executor, so its call count
	// is only settled once the shared Future has completed.
	res := a.Wait()
	if got := calls.Load(); got != 1 {
		t.Fatalf("miss handler called %d times, want 1", got)
	}
	if !res.Ok() || res.Val() != 1 {
		t.Fatalf("got %v, want Success(1)", res)
	}
}

func TestCachedValueInvalidateStartsFreshComputation(t *testing.T) {
	ctx := NewExecutionContext()
	defer ctx.Destroy()

	cell := 1
	c := NewCachedValue(ctx, func(live *ExecutionContext) (*Future[int], error) {
		return Succeeded(cell), nil
	})

	first := c.Value()
	if got := first.Wait().Val(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}

	cell = 2
	c.Invalidate()
	second := c.Value()

	if first == second {
		t.Fatal("Value returned the same identity after Invalidate")
	}
	if got := second.Wait().Val(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestCachedValueFailsWhenContextAlreadyDestroyed(t *testing.T) {
	ctx := NewExecutionContext()
	c := NewCachedValue(ctx, func(live *ExecutionContext) (*Future[int], error) {
		return Succeeded(1), nil
	})
	ctx.Destroy()

	res := c.Value().Wait()
	if res.Ok() || !errors.Is(res.Err(), ErrContextDeallocated) {
		t.Fatalf("got %v, want Failure(ErrContextDeallocated)", res)
	}
}
