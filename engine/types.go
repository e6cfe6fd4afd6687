/*
Package engine provides the core sales and balance aggregation engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking daily
  sales records and periodic financial balance snapshots of small retail
  stores ("colmados"), and for deriving profitability metrics from each
  snapshot. It owns the only non-trivial invariants of the system: calendar
  date arithmetic across month boundaries, idempotent upsert semantics, and
  derived-value consistency.

KEY CONCEPTS IN THIS FILE (types.go):
  - Colmado: A store with its configured accounting cut-off day
  - SalesRecord: One day's sales for one colmado
  - RawBalance: The raw financial inputs of a balance snapshot
  - BalanceSnapshot: A raw balance plus its derived profit/margin fields

DESIGN PRINCIPLES:
  1. Identity from dates: records are keyed by their calendar day (DateKey),
     two records for the same day collide and the later write wins
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Purity: nothing in this package performs I/O; data arrives already
     materialized from the persistence collaborator (see store.go)
  4. Self-contained snapshots: derived fields are computed once at creation
     and stored, so past reports are immune to later formula changes

SEE ALSO:
  - datekey.go: canonical date identity
  - cycle.go: billing window resolution
  - metrics.go: profit and margin derivation
  - sales.go, balance.go: the two ledgers
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// ColmadoID identifies one independently operated store.
type ColmadoID string

// =============================================================================
// COLMADO - Store configuration
// =============================================================================

// Colmado is an independently tracked retail outlet. CutOffDay is the
// day-of-month that closes one accounting cycle and opens the next. It is a
// fixed property of the store, consulted by ResolveCycle; it is never derived
// from sales or balance data.
type Colmado struct {
	ID        ColmadoID
	Name      string
	CutOffDay int // 1-31
}

// CurrentCycle resolves the accounting window containing the reference day.
func (c Colmado) CurrentCycle(reference Day) (CycleWindow, error) {
	return ResolveCycle(reference, c.CutOffDay)
}

// =============================================================================
// SALES RECORD - One day's sales
// =============================================================================

// SalesRecord holds the sales total of a single calendar day. At most one
// record exists per colmado per day; submitting a second record for the same
// day overwrites the first.
type SalesRecord struct {
	Date   Day
	Amount decimal.Decimal
}

// Key returns the record's collision identity, derived from its date.
func (r SalesRecord) Key() DateKey { return r.Date.Key() }

// Validate rejects records with a negative amount. Zero is valid (a closed day).
func (r SalesRecord) Validate() error {
	if r.Amount.IsNegative() {
		return &InvalidRecordError{Field: "amount", Value: r.Amount}
	}
	return nil
}

// =============================================================================
// BALANCE - Raw inputs and the stored snapshot
// =============================================================================

// RawBalance carries the raw financial fields a user submits at the close of
// an accounting period. All fields must be non-negative.
type RawBalance struct {
	TotalAssets    decimal.Decimal
	WorkingCapital decimal.Decimal
	Liabilities    decimal.Decimal
	Expenses       decimal.Decimal
	Sales          decimal.Decimal
}

// Validate rejects a balance with any negative field.
func (b RawBalance) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"total_assets", b.TotalAssets},
		{"working_capital", b.WorkingCapital},
		{"liabilities", b.Liabilities},
		{"expenses", b.Expenses},
		{"sales", b.Sales},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return &InvalidRecordError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

// BalanceSnapshot is a balance at the close of an accounting period: the raw
// inputs plus the four derived values. Snapshots are built via DeriveBalance
// so the derived fields can never drift from the raw ones; they are read-only
// thereafter until explicitly resubmitted.
type BalanceSnapshot struct {
	Date Day
	RawBalance

	NetProfit   decimal.Decimal
	GrossProfit decimal.Decimal
	NetMargin   decimal.Decimal
	GrossMargin decimal.Decimal
}

// Key returns the snapshot's collision identity, derived from its date.
func (s BalanceSnapshot) Key() DateKey { return s.Date.Key() }
