/*
sales.go - In-memory ledger of a colmado's dated sales records

PURPOSE:
  SalesLedger models the sales history of one store: upsert-by-date,
  cumulative-sum-in-window queries and chronological ordering. Each colmado
  owns its own ledger; no record is ever shared across stores.

INVARIANTS:
  1. At most one record per calendar day (DateKey collision = overwrite)
  2. Upsert is idempotent: applying the same record twice leaves the ledger
     in the same state as applying it once (safe caller retries)
  3. A failed upsert leaves the ledger unchanged
  4. Records are held in ascending date order at all times
*/
package engine

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SALES LEDGER
// =============================================================================

// SalesLedger holds one colmado's sales records in ascending date order.
// Safe for concurrent use; a ledger is scoped to a single store.
type SalesLedger struct {
	mu      sync.RWMutex
	records []SalesRecord
}

func NewSalesLedger() *SalesLedger {
	return &SalesLedger{}
}

// Upsert inserts the record, or overwrites the existing record sharing its
// DateKey. Last write wins; records are never duplicated or appended twice
// for the same day.
func (l *SalesLedger) Upsert(r SalesRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := sort.Search(len(l.records), func(i int) bool {
		return l.records[i].Date.AfterOrEqual(r.Date)
	})
	if i < len(l.records) && l.records[i].Date.Equal(r.Date) {
		l.records[i] = r
		return nil
	}

	l.records = append(l.records, SalesRecord{})
	copy(l.records[i+1:], l.records[i:])
	l.records[i] = r
	return nil
}

// CumulativeEntry pairs a sales record with the running total of all records
// at or before it within the queried window.
type CumulativeEntry struct {
	Record SalesRecord
	Total  decimal.Decimal
}

// CumulativeSum returns the records falling inside the inclusive window, in
// ascending date order, each paired with the running sum of amounts up to and
// including it. Records outside the window are excluded entirely, not
// zero-filled. Amounts are non-negative, so totals never decrease.
func (l *SalesLedger) CumulativeSum(window CycleWindow) []CumulativeEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []CumulativeEntry
	total := decimal.Zero
	for _, r := range l.records {
		if !window.Contains(r.Date) {
			continue
		}
		total = total.Add(r.Amount)
		entries = append(entries, CumulativeEntry{Record: r, Total: total})
	}
	return entries
}

// MostRecent returns the record with the greatest date, or false if the
// ledger is empty. Used to seed "next day to enter" suggestions.
func (l *SalesLedger) MostRecent() (SalesRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return SalesRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

// All returns a copy of every record in ascending date order.
func (l *SalesLedger) All() []SalesRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]SalesRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *SalesLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
