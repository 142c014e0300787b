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

// Package asyncoremetrics tracks process-wide counters for the core
// package's lifecycle events: Future completions and cancellations,
// ExecutionContext teardown, and CachedValue hit/miss/recompute
// activity. The core package calls into it directly; importing this
// package on its own is only useful for reading the counters back out
// via Read.
package asyncoremetrics

import "sync/atomic"

var (
	futuresCompleted    atomic.Int64
	futuresCancelled    atomic.Int64
	contextsDeallocated atomic.Int64
	cacheHits           atomic.Int64
	cacheMisses         atomic.Int64
	cacheRecomputes     atomic.Int64
)

// RecordFutureCompleted increments the completed-Future counter.
func RecordFutureCompleted() { futuresCompleted.Add(1) }

// RecordFutureCancelled increments the cancelled-Future counter.
func RecordFutureCancelled() { futuresCancelled.Add(1) }

// RecordContextDeallocated increments the destroyed-ExecutionContext counter.
func RecordContextDeallocated() { contextsDeallocated.Add(1) }

// RecordCacheHit increments CachedValue's cache-hit counter.
func RecordCacheHit() { cacheHits.Add(1) }

// RecordCacheMiss increments CachedValue's cache-miss counter.
func RecordCacheMiss() { cacheMisses.Add(1) }

// RecordCacheRecompute increments CachedValue's recomputation counter,
// fired once per Invalidate-triggered miss.
func RecordCacheRecompute() { cacheRecomputes.Add(1) }

// Snapshot is a point-in-time read of every counter.
type Snapshot struct {
	FuturesCompleted    int64
	FuturesCancelled    int64
	ContextsDeallocated int64
	CacheHits           int64
	CacheMisses         int64
	CacheRecomputes     int64
}

// Read returns the current value of every counter.
func Read() Snapshot {
	return Snapshot{
		FuturesCompleted:    futuresCompleted.Load(),
		FuturesCancelled:    futuresCancelled.Load(),
		ContextsDeallocated: contextsDeallocated.Load(),
		CacheHits:           cacheHits.Load(),
		CacheMisses:         cacheMisses.Load(),
		CacheRecomputes:     cacheRecomputes.Load(),
	}
}
