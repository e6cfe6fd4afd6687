package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/colmado/sales-engine/engine"
)

func venta(y int, m time.Month, d int, amount int64) engine.SalesRecord {
	return engine.SalesRecord{Date: day(y, m, d), Amount: decimal.NewFromInt(amount)}
}

func snapshot(t *testing.T, y int, m time.Month, d int, sales int64) engine.BalanceSnapshot {
	t.Helper()
	s, err := engine.DeriveBalance(day(y, m, d), engine.RawBalance{
		TotalAssets:    decimal.NewFromInt(sales * 2),
		WorkingCapital: decimal.NewFromInt(sales),
		Liabilities:    decimal.NewFromInt(sales / 10),
		Expenses:       decimal.NewFromInt(sales / 5),
		Sales:          decimal.NewFromInt(sales),
	})
	if err != nil {
		t.Fatalf("unexpected error building snapshot: %v", err)
	}
	return s
}

// =============================================================================
// SALES LEDGER
// =============================================================================

func TestSalesLedger_UpsertOverwritesSameDate(t *testing.T) {
	// GIVEN: a record for 2024-05-01 with amount 100
	// WHEN: upserting again for the same date with amount 150
	// THEN: the ledger contains exactly one record, with amount 150

	l := engine.NewSalesLedger()

	if err := l.Upsert(venta(2024, time.May, 1, 100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Upsert(venta(2024, time.May, 1, 150)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.Len() != 1 {
		t.Fatalf("expected exactly one record, got %d", l.Len())
	}
	got, _ := l.MostRecent()
	if !got.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected last write (150) to win, got %s", got.Amount)
	}
}

func TestSalesLedger_UpsertIsIdempotent(t *testing.T) {
	// Applying the same record twice leaves the same state as applying it
	// once - required for safe caller retries.

	l := engine.NewSalesLedger()
	r := venta(2024, time.May, 1, 100)

	_ = l.Upsert(r)
	before := l.All()
	_ = l.Upsert(r)
	after := l.All()

	if len(before) != len(after) {
		t.Fatalf("idempotent upsert changed record count: %d -> %d", len(before), len(after))
	}
	if !after[0].Amount.Equal(before[0].Amount) || !after[0].Date.Equal(before[0].Date) {
		t.Error("idempotent upsert changed ledger state")
	}
}

func TestSalesLedger_KeepsChronologicalOrder(t *testing.T) {
	// GIVEN: records upserted out of order
	// THEN: All() returns them oldest first

	l := engine.NewSalesLedger()
	_ = l.Upsert(venta(2024, time.May, 3, 30))
	_ = l.Upsert(venta(2024, time.May, 1, 10))
	_ = l.Upsert(venta(2024, time.May, 2, 20))

	all := l.All()
	for i := 1; i < len(all); i++ {
		if !all[i-1].Date.Before(all[i].Date) {
			t.Fatalf("records out of order at %d: %s then %s", i, all[i-1].Date, all[i].Date)
		}
	}
}

func TestSalesLedger_CumulativeSum(t *testing.T) {
	// GIVEN: records inside and outside the window
	// WHEN: computing the cumulative sum over the window
	// THEN: outside records are excluded entirely, inside records come back
	//       in date order with a non-decreasing running total

	l := engine.NewSalesLedger()
	_ = l.Upsert(venta(2024, time.April, 30, 999)) // before window
	_ = l.Upsert(venta(2024, time.May, 1, 100))
	_ = l.Upsert(venta(2024, time.May, 2, 250))
	_ = l.Upsert(venta(2024, time.May, 4, 50))
	_ = l.Upsert(venta(2024, time.June, 1, 999)) // after window

	window := engine.CycleWindow{Start: day(2024, time.May, 1), End: day(2024, time.May, 31)}
	entries := l.CumulativeSum(window)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries inside window, got %d", len(entries))
	}

	expected := []int64{100, 350, 400}
	prev := decimal.Zero
	for i, e := range entries {
		if !e.Total.Equal(decimal.NewFromInt(expected[i])) {
			t.Errorf("entry %d: expected running total %d, got %s", i, expected[i], e.Total)
		}
		if e.Total.LessThan(prev) {
			t.Errorf("running total decreased at %d", i)
		}
		prev = e.Total
	}
}

func TestSalesLedger_CumulativeSum_EmptyWindow(t *testing.T) {
	l := engine.NewSalesLedger()
	_ = l.Upsert(venta(2024, time.May, 1, 100))

	window := engine.CycleWindow{Start: day(2024, time.July, 1), End: day(2024, time.July, 31)}
	if entries := l.CumulativeSum(window); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestSalesLedger_MostRecent(t *testing.T) {
	l := engine.NewSalesLedger()

	if _, ok := l.MostRecent(); ok {
		t.Error("empty ledger must report no most-recent record")
	}

	_ = l.Upsert(venta(2024, time.May, 2, 20))
	_ = l.Upsert(venta(2024, time.May, 9, 90))
	_ = l.Upsert(venta(2024, time.May, 5, 50))

	got, ok := l.MostRecent()
	if !ok || !got.Date.Equal(day(2024, time.May, 9)) {
		t.Errorf("expected 2024-05-09 as most recent, got %s (ok=%v)", got.Date, ok)
	}
}

func TestSalesLedger_NegativeAmountRejected(t *testing.T) {
	// GIVEN: a record with a negative amount
	// WHEN: upserting
	// THEN: InvalidRecord, and the ledger is left unchanged

	l := engine.NewSalesLedger()
	_ = l.Upsert(venta(2024, time.May, 1, 100))

	bad := engine.SalesRecord{Date: day(2024, time.May, 2), Amount: decimal.NewFromInt(-5)}
	err := l.Upsert(bad)
	if !errors.Is(err, engine.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("failed upsert must not change the ledger, len=%d", l.Len())
	}
}

// =============================================================================
// BALANCE LEDGER
// =============================================================================

func TestBalanceLedger_UpsertOverwritesSameDate(t *testing.T) {
	l := engine.NewBalanceLedger()

	_ = l.Upsert(snapshot(t, 2024, time.May, 3, 100000))
	_ = l.Upsert(snapshot(t, 2024, time.May, 3, 200000))

	if l.Len() != 1 {
		t.Fatalf("expected one snapshot after same-date upserts, got %d", l.Len())
	}
	got, _ := l.MostRecent()
	if !got.Sales.Equal(decimal.NewFromInt(200000)) {
		t.Errorf("expected last write to win, got sales %s", got.Sales)
	}
}

func TestBalanceLedger_ListDescending(t *testing.T) {
	// GIVEN: snapshots upserted out of order
	// WHEN: listing with a limit
	// THEN: most recent first, at most limit entries

	l := engine.NewBalanceLedger()
	_ = l.Upsert(snapshot(t, 2024, time.March, 3, 100000))
	_ = l.Upsert(snapshot(t, 2024, time.May, 3, 300000))
	_ = l.Upsert(snapshot(t, 2024, time.April, 3, 200000))

	got := l.ListDescending(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if !got[0].Date.Equal(day(2024, time.May, 3)) || !got[1].Date.Equal(day(2024, time.April, 3)) {
		t.Errorf("expected May then April, got %s then %s", got[0].Date, got[1].Date)
	}

	// A limit beyond the ledger returns what exists, nothing invented.
	if all := l.ListDescending(50); len(all) != 3 {
		t.Errorf("expected all 3 snapshots, got %d", len(all))
	}

	if nothing := l.ListDescending(0); nothing != nil {
		t.Errorf("expected nil for non-positive limit, got %v", nothing)
	}
}

func TestBalanceLedger_NegativeFieldRejected(t *testing.T) {
	l := engine.NewBalanceLedger()

	bad := engine.BalanceSnapshot{
		Date: day(2024, time.May, 3),
		RawBalance: engine.RawBalance{
			TotalAssets: decimal.NewFromInt(-1),
		},
	}
	if err := l.Upsert(bad); !errors.Is(err, engine.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if l.Len() != 0 {
		t.Error("failed upsert must not change the ledger")
	}
}
