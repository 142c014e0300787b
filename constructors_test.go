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
	"time"
)

func TestSucceededIsAlreadyComplete(t *testing.T) {
	f := Succeeded(5)
	if !f.IsCompleted() {
		t.Fatal("Succeeded should be complete at construction")
	}
	if res := f.Wait(); !res.Ok() || res.Val() != 5 {
		t.Fatalf("got %v, want Success(5)", res)
	}
}

func TestFailedIsAlreadyComplete(t *testing.T) {
	wantErr := errors.New("boom")
	f := Failed[int](wantErr)
	res := f.Wait()
	if res.Ok() || !errors.Is(res.Err(), wantErr) {
		t.Fatalf("got %v, want Failure(%v)", res, wantErr)
	}
}

func TestSubmitCatchesPanicAsFailure(t *testing.T) {
	f := Submit(Default(), func() (int, error) {
		panic("kaboom")
	})
	res := f.Wait()
	if res.Ok() {
		t.Fatal("expected a panic to surface as a failure")
	}
}

func TestSubmitFutureFlattensInnerFuture(t *testing.T) {
	f := SubmitFuture(Default(), func() (*Future[int], error) {
		return Succeeded(11), nil
	})
	res := f.Wait()
	if !res.Ok() || res.Val() != 11 {
		t.Fatalf("got %v, want Success(11)", res)
	}
}

func TestSubmitContextFailsAfterContextDestroyed(t *testing.T) {
	ctx := NewExecutionContext()
	executor := NewExecutor(1)

	// saturate the executor's single slot so the real submission below
	// cannot even be dispatched until blocker is closed, which lets us
	// deterministically destroy ctx first.
	blocker := make(chan struct{})
	executor.Execute(func() { <-blocker })

	fCh := make(chan *Future[int], 1)
	go func() {
		fCh <- SubmitContext(ctx, executor, func(live *ExecutionContext) (int, error) {
			return 1, nil
		})
	}()

	ctx.Destroy()
	close(blocker)

	f := <-fCh
	res := f.Wait()
	if res.Ok() || !errors.Is(res.Err(), ErrContextDeallocated) {
		t.Fatalf("got %v, want Failure(ErrContextDeallocated)", res)
	}
}

func TestSubmitDelayedCancelledBeforeFireNeverRunsThunk(t *testing.T) {
	token := NewCancellationToken()
	ran := false
	f := SubmitDelayed(Default(), 100*time.Millisecond, token, func() (int, error) {
		ran = true
		return 1, nil
	})

	token.Cancel()
	res := f.Wait()

	if res.Ok() || !errors.Is(res.Err(), ErrCancelled) {
		t.Fatalf("got %v, want Failure(ErrCancelled)", res)
	}
	time.Sleep(150 * time.Millisecond)
	if ran {
		t.Fatal("thunk ran after token cancellation")
	}
}
