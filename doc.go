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

// Package asyncore provides the composable concurrency primitives that
// the rest of an async stack is built on: a one-shot Future/Promise
// value with a handler registry, an Executor abstraction over where
// work runs, an ExecutionContext that binds dependent work to a
// collaborator's lifetime, a CancellationToken for fan-out
// cancellation, a CachedValue single-flight recomputation coordinator,
// and the joined/reduce/async_map/async_flat_map collection
// combinators.
//
// # Futures and Promises
//
// A Future[T] is a handle to a value that is produced at most once. It
// is either Pending or Completed(Fallible[T]); once Completed, it never
// changes. A Promise[T] is the write side of the same object — the two
// are not separate allocations, only separate method sets, exactly the
// way this module's predecessor treated its Promise as the single
// read/write view onto a genericPromise.
//
// Handlers are registered with MakeFinalHandler, which returns a
// FutureHandler receipt. Holding the receipt keeps the callback
// registered; letting it be garbage collected (or explicitly releasing
// it through a ReleasePool) deregisters the callback. A Future never
// owns its handlers strongly, so a consumer that goes away without
// ever being asked for its result does not keep the producer's
// callback closure alive.
//
// # Lifetimes
//
// An ExecutionContext owns an Executor and a ReleasePool and gives
// dependent futures a lifetime to observe: AddDependent registers a
// Future so that, if the context is destroyed before the Future
// completes, the Future fails with ContextDeallocated instead of
// hanging forever. Every callback that closes over a context does so
// through a weak handle and must check liveness before dereferencing;
// see (*ExecutionContext).WeakSelf in context.go.
//
// # Cancellation
//
// A CancellationToken fans a single cancel() call out, synchronously,
// to every Cancellable registered with it. Registering with an
// already-cancelled token cancels the registrant immediately, before
// Add returns.
//
// # Configuration, metrics, and the demo CLI
//
// asyncorecfg loads pool-size and debug-logging knobs from the
// environment; asyncoremetrics exposes process-wide atomic counters for
// the events the core package already records (futures completed or
// cancelled, contexts deallocated, cache hits/misses/recomputes);
// cmd/asyncoredemo is a small cobra CLI exercising Joined and
// CachedValue end to end.
package asyncore
