package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/colmado/sales-engine/engine"
)

// approxEqual checks two decimals within a small epsilon (margins are ratios
// produced by division).
func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(decimal.NewFromFloat(0.0001))
}

func money(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestDeriveBalance_ReferenceScenario(t *testing.T) {
	// GIVEN: the raw balance of a real accounting period
	// WHEN: deriving the snapshot
	// THEN: netProfit = 61720, grossProfit = 173317, and both margins equal
	//       profit/sales

	raw := engine.RawBalance{
		TotalAssets:    money(543827),
		WorkingCapital: money(468912),
		Liabilities:    money(13195),
		Expenses:       money(111597),
		Sales:          money(618435),
	}

	s, err := engine.DeriveBalance(engine.NewDay(2024, time.June, 3), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.NetProfit.Equal(money(61720)) {
		t.Errorf("expected net profit 61720, got %s", s.NetProfit)
	}
	if !s.GrossProfit.Equal(money(173317)) {
		t.Errorf("expected gross profit 173317, got %s", s.GrossProfit)
	}
	if !approxEqual(s.NetMargin, decimal.NewFromFloat(0.0998)) {
		t.Errorf("expected net margin ~0.0998, got %s", s.NetMargin)
	}
	if !approxEqual(s.GrossMargin, decimal.NewFromFloat(0.2803)) {
		t.Errorf("expected gross margin ~0.2803, got %s", s.GrossMargin)
	}

	// Margins are exactly profit/sales, not a rounding of them.
	if !s.NetMargin.Equal(s.NetProfit.Div(s.Sales)) {
		t.Error("net margin must equal netProfit/sales exactly")
	}
	if !s.GrossMargin.Equal(s.GrossProfit.Div(s.Sales)) {
		t.Error("gross margin must equal grossProfit/sales exactly")
	}
}

func TestDeriveBalance_ZeroSalesYieldsZeroMargins(t *testing.T) {
	// GIVEN: a period with no recorded sales
	// WHEN: deriving margins
	// THEN: both margins are 0 - a policy choice, not an error or NaN

	raw := engine.RawBalance{
		TotalAssets:    money(100000),
		WorkingCapital: money(40000),
		Liabilities:    money(10000),
		Expenses:       money(25000),
		Sales:          decimal.Zero,
	}

	s, err := engine.DeriveBalance(engine.NewDay(2024, time.June, 3), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.NetMargin.IsZero() || !s.GrossMargin.IsZero() {
		t.Errorf("expected zero margins, got net=%s gross=%s", s.NetMargin, s.GrossMargin)
	}
	// Profit fields are still derived normally.
	if !s.NetProfit.Equal(money(50000)) {
		t.Errorf("expected net profit 50000, got %s", s.NetProfit)
	}
}

func TestDeriveBalance_NegativeProfitIsNotAnError(t *testing.T) {
	// A losing period is valid data: only negative INPUTS are rejected.
	raw := engine.RawBalance{
		TotalAssets:    money(50000),
		WorkingCapital: money(60000),
		Liabilities:    money(10000),
		Expenses:       money(5000),
		Sales:          money(100000),
	}

	s, err := engine.DeriveBalance(engine.NewDay(2024, time.June, 3), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.NetProfit.Equal(money(-20000)) {
		t.Errorf("expected net profit -20000, got %s", s.NetProfit)
	}
	if !s.NetMargin.IsNegative() {
		t.Errorf("expected negative net margin, got %s", s.NetMargin)
	}
}

func TestDeriveBalance_NegativeFieldRejected(t *testing.T) {
	// GIVEN: a raw balance with one negative field
	// WHEN: deriving
	// THEN: InvalidRecord naming the field, and no snapshot

	raw := engine.RawBalance{
		TotalAssets:    money(100000),
		WorkingCapital: money(-1),
		Liabilities:    money(10000),
		Expenses:       money(5000),
		Sales:          money(100000),
	}

	_, err := engine.DeriveBalance(engine.NewDay(2024, time.June, 3), raw)
	if !errors.Is(err, engine.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	var recErr *engine.InvalidRecordError
	if !errors.As(err, &recErr) || recErr.Field != "working_capital" {
		t.Errorf("expected error naming working_capital, got %v", err)
	}
}
