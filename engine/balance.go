/*
balance.go - In-memory ledger of a colmado's balance snapshots

Same overwrite-by-date-identity contract as the sales ledger; retrieval is
ordered by recency (most recent accounting period first).
*/
package engine

import (
	"sort"
	"sync"
)

// =============================================================================
// BALANCE LEDGER
// =============================================================================

// BalanceLedger holds one colmado's balance snapshots in ascending date
// order. Safe for concurrent use; a ledger is scoped to a single store.
type BalanceLedger struct {
	mu    sync.RWMutex
	snaps []BalanceSnapshot
}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{}
}

// Upsert inserts the snapshot, or overwrites the existing snapshot sharing
// its DateKey. Last write wins. A snapshot with a negative raw field is
// rejected and the ledger is left unchanged.
func (l *BalanceLedger) Upsert(s BalanceSnapshot) error {
	if err := s.RawBalance.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := sort.Search(len(l.snaps), func(i int) bool {
		return l.snaps[i].Date.AfterOrEqual(s.Date)
	})
	if i < len(l.snaps) && l.snaps[i].Date.Equal(s.Date) {
		l.snaps[i] = s
		return nil
	}

	l.snaps = append(l.snaps, BalanceSnapshot{})
	copy(l.snaps[i+1:], l.snaps[i:])
	l.snaps[i] = s
	return nil
}

// ListDescending returns up to limit snapshots, most recent first. A limit
// larger than the ledger returns what exists; a non-positive limit returns
// nil. When the underlying collaborator page-limits a fetch, limit is a hint:
// the ledger returns what it holds without inventing or truncating further.
func (l *BalanceLedger) ListDescending(limit int) []BalanceSnapshot {
	if limit <= 0 {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit > len(l.snaps) {
		limit = len(l.snaps)
	}
	out := make([]BalanceSnapshot, 0, limit)
	for i := len(l.snaps) - 1; i >= len(l.snaps)-limit; i-- {
		out = append(out, l.snaps[i])
	}
	return out
}

// MostRecent returns the snapshot with the greatest date, or false if the
// ledger is empty.
func (l *BalanceLedger) MostRecent() (BalanceSnapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.snaps) == 0 {
		return BalanceSnapshot{}, false
	}
	return l.snaps[len(l.snaps)-1], true
}

func (l *BalanceLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.snaps)
}
