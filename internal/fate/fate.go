// Package fate holds the small atomic state machine shared by every
// completable value in asyncore (futures, promises, and the aggregate
// completables built by the collection combinators).
//
// It is the direct descendant of the promise module's PromStatus type:
// the same compare-and-swap-guarded transition idiom, trimmed down to
// the two transitions a one-shot Future actually needs. A Future has
// no chain modes and no one-time-consumption "Handled" fate, because,
// unlike a promise chain, a Future's handlers are independent
// observers, not exclusive consumers of a single Res value.
package fate

import "sync/atomic"

// Fate is the lifecycle state of a completable value.
type Fate uint32

const (
	// Pending means the value has not been completed yet.
	Pending Fate = iota
	// Completing means some goroutine has won the race to complete the
	// value and is in the middle of recording the result and draining
	// the handler registry. Other completers must back off.
	Completing
	// Completed means the result is final and immutable.
	Completed
)

func (f Fate) String() string {
	switch f {
	case Pending:
		return "pending"
	case Completing:
		return "completing"
	case Completed:
		return "completed"
	default:
		return "<unknown fate>"
	}
}

// State is an atomically-updated Fate value.
type State struct {
	v atomic.Uint32
}

// Load returns the current fate.
func (s *State) Load() Fate {
	return Fate(s.v.Load())
}

// IsCompleted reports whether the fate has reached Completed.
func (s *State) IsCompleted() bool {
	return s.Load() == Completed
}

// BeginComplete attempts to move the fate from Pending to Completing.
// Only the caller that wins this race may record a result and move the
// fate to Completed via FinishComplete; every other caller must treat
// the value as already being completed (or about to be) and not touch
// the result storage.
func (s *State) BeginComplete() (won bool) {
	return s.v.CompareAndSwap(uint32(Pending), uint32(Completing))
}

// FinishComplete moves the fate from Completing to Completed. It must
// only be called by the goroutine that won BeginComplete.
func (s *State) FinishComplete() {
	s.v.Store(uint32(Completed))
}
