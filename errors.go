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
	"errors"
	"fmt"
)

// ErrCancelled is the error a Future fails with when it, or a
// CancellationToken it is registered with, is cancelled.
var ErrCancelled = errors.New("asyncore: cancelled")

// ErrContextDeallocated is the error a dependent Future fails with
// when its owning ExecutionContext is destroyed before the Future
// completes.
var ErrContextDeallocated = errors.New("asyncore: execution context deallocated")

// UserError wraps an error raised from a user-supplied thunk so it can
// be told apart, by callers that care, from ErrCancelled and
// ErrContextDeallocated, while still satisfying errors.Is/errors.As
// against the wrapped error.
type UserError struct {
	err error
}

func newUserError(err error) *UserError {
	return &UserError{err: err}
}

func (e *UserError) Error() string {
	return fmt.Sprintf("asyncore: user error: %s", e.err)
}

func (e *UserError) Unwrap() error {
	return e.err
}

// UserPanic wraps a value passed to panic() inside a user-supplied
// thunk. FromThunk recovers every such panic and wraps the raised
// value here, whether or not it is itself an error, so it can be
// carried as a Fallible failure (inside a UserError).
type UserPanic struct {
	V any
}

func newUserPanic(v any) *UserPanic {
	return &UserPanic{V: v}
}

func (e *UserPanic) Error() string {
	return fmt.Sprintf("asyncore: panic in user thunk: %v", e.V)
}
