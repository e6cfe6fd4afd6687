package engine

import "github.com/shopspring/decimal"

// =============================================================================
// BALANCE METRICS - Pure derivation of profit and margin fields
// =============================================================================

// NetProfit is totalAssets - workingCapital - liabilities.
func NetProfit(b RawBalance) decimal.Decimal {
	return b.TotalAssets.Sub(b.WorkingCapital).Sub(b.Liabilities)
}

// GrossProfit is netProfit + expenses.
func GrossProfit(b RawBalance) decimal.Decimal {
	return NetProfit(b).Add(b.Expenses)
}

// NetMargin is netProfit / sales. A period with no recorded sales yields 0.
func NetMargin(b RawBalance) decimal.Decimal {
	return marginOf(NetProfit(b), b.Sales)
}

// GrossMargin is grossProfit / sales. A period with no recorded sales yields 0.
func GrossMargin(b RawBalance) decimal.Decimal {
	return marginOf(GrossProfit(b), b.Sales)
}

// marginOf guards division by zero: a store with no sales in a period has
// margin 0, not an error or NaN.
func marginOf(profit, sales decimal.Decimal) decimal.Decimal {
	if sales.IsZero() {
		return decimal.Zero
	}
	return profit.Div(sales)
}

// DeriveBalance builds a self-contained snapshot from raw inputs. The four
// derived values are computed together, here and only here, and stored with
// the snapshot so historical reports survive later formula changes. A raw
// balance with a negative field is rejected before anything is derived.
func DeriveBalance(date Day, raw RawBalance) (BalanceSnapshot, error) {
	if err := raw.Validate(); err != nil {
		return BalanceSnapshot{}, err
	}
	return BalanceSnapshot{
		Date:        date,
		RawBalance:  raw,
		NetProfit:   NetProfit(raw),
		GrossProfit: GrossProfit(raw),
		NetMargin:   NetMargin(raw),
		GrossMargin: GrossMargin(raw),
	}, nil
}
