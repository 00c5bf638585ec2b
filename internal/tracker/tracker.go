// Package tracker provides the process-wide handle to the shared ledger.
//
// The binaries fetch the ledger once through Instance and hand the
// pointer to every component that needs it; packages never reach for the
// singleton themselves.
package tracker

import (
	"sync"

	"fintrack/internal/ledger"
)

var (
	mu       sync.Mutex
	instance *ledger.Ledger
)

// Instance returns the process-wide ledger, constructing it empty on the
// first call. Every call returns the same pointer, so mutations through
// one reference are visible through any other.
func Instance() *ledger.Ledger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = ledger.New()
	}
	return instance
}

// Reset discards the shared ledger so the next Instance call builds a
// fresh one. It exists for test isolation; the original design had no
// teardown and tests cleared fields by hand.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
