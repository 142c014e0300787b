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
	"testing"
)

func TestContextDestroyFailsPendingDependents(t *testing.T) {
	ctx := NewExecutionContext()

	p := NewPromise[int]()
	f := p.Future()
	ctx.AddDependent(f)

	ctx.Destroy()

	res := f.Wait()
	if res.Ok() || !errors.Is(res.Err(), ErrContextDeallocated) {
		t.Fatalf("got %v, want Failure(ErrContextDeallocated)", res)
	}
}

func TestContextDestroyLeavesCompletedDependentsAlone(t *testing.T) {
	ctx := NewExecutionContext()

	p := NewPromise[int]()
	f := p.Future()
	ctx.AddDependent(f)
	p.Succeed(5)

	ctx.Destroy()

	res := f.Wait()
	if !res.Ok() || res.Val() != 5 {
		t.Fatalf("got %v, want Success(5)", res)
	}
}

func TestAddDependentAfterDestroyCancelsImmediately(t *testing.T) {
	ctx := NewExecutionContext()
	ctx.Destroy()

	p := NewPromise[int]()
	f := p.Future()
	ctx.AddDependent(f)

	res := f.Wait()
	if res.Ok() || !errors.Is(res.Err(), ErrContextDeallocated) {
		t.Fatalf("got %v, want Failure(ErrContextDeallocated)", res)
	}
}

func TestContextDestroyIsIdempotent(t *testing.T) {
	ctx := NewExecutionContext()
	ctx.Destroy()
	ctx.Destroy()
	if !ctx.IsDestroyed() {
		t.Fatal("context should report destroyed")
	}
}
