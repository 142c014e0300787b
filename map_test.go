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

func TestMapTransformsSuccessValue(t *testing.T) {
	src := Succeeded(2)
	res := Map(src, Immediate(), func(v int) (int, error) { return v * 10, nil }).Wait()
	if !res.Ok() || res.Val() != 20 {
		t.Fatalf("got %v, want Success(20)", res)
	}
}

func TestMapPropagatesUpstreamFailureWithoutCallingF(t *testing.T) {
	wantErr := errors.New("boom")
	src := Failed[int](wantErr)
	called := false
	res := Map(src, Immediate(), func(v int) (int, error) {
		called = true
		return v, nil
	}).Wait()

	if called {
		t.Fatal("f should not run when upstream failed")
	}
	if res.Ok() || !errors.Is(res.Err(), wantErr) {
		t.Fatalf("got %v, want Failure(%v)", res, wantErr)
	}
}

func TestFlatMapFlattensInnerFuture(t *testing.T) {
	src := Succeeded(3)
	res := FlatMap(src, Immediate(), func(v int) (*Future[int], error) {
		return Succeeded(v + 1), nil
	}).Wait()
	if !res.Ok() || res.Val() != 4 {
		t.Fatalf("got %v, want Success(4)", res)
	}
}

func TestMapContextFailsWhenContextDestroyedBeforeDispatch(t *testing.T) {
	ctx := NewExecutionContext()
	src := NewPromise[int]()

	down := MapContext(ctx, src.Future(), Immediate(), func(live *ExecutionContext, v int) (int, error) {
		return v, nil
	})

	ctx.Destroy()
	src.Succeed(1)

	res := down.Wait()
	if res.Ok() || !errors.Is(res.Err(), ErrContextDeallocated) {
		t.Fatalf("got %v, want Failure(ErrContextDeallocated)", res)
	}
}
