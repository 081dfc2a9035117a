package memory

// Package memory provides a simple in-memory snapshot store used for
// development and tests. It keeps code paths easy to follow while allowing a
// real database backend to be plugged in.

import (
	"context"
	"sync"

	"github.com/tinoosan/cashflow/internal/cashflow"
	"github.com/tinoosan/cashflow/internal/errs"
)

// Store holds one ledger snapshot per scenario, guarded by an RWMutex.
// Snapshots go in and out as clones, so callers never alias stored state.
type Store struct {
	mu      sync.RWMutex
	ledgers map[string]cashflow.Ledger
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{ledgers: make(map[string]cashflow.Ledger)}
}

// Ledger returns the current snapshot for a scenario.
func (s *Store) Ledger(_ context.Context, scenario string) (cashflow.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[scenario]
	if !ok {
		return cashflow.Ledger{}, errs.ErrNotFound
	}
	return l.Clone(), nil
}

// SaveLedger replaces the snapshot for the ledger's scenario.
func (s *Store) SaveLedger(_ context.Context, l cashflow.Ledger) error {
	if l.Scenario == "" {
		return errs.ErrInvalid
	}
	s.mu.Lock()
	s.ledgers[l.Scenario] = l.Clone()
	s.mu.Unlock()
	return nil
}

// Reset drops all snapshots. Test helper.
func (s *Store) Reset() {
	s.mu.Lock()
	s.ledgers = map[string]cashflow.Ledger{}
	s.mu.Unlock()
}

// Ready reports the store as always available.
func (s *Store) Ready(_ context.Context) error { return nil }
