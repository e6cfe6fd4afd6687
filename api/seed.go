/*
seed.go - Demo data loader

PURPOSE:
  Populates the store with a realistic dataset for demos and manual testing:
  two colmados with different cut-off days, a year of monthly balance
  snapshots with seasonal variation, and several weeks of daily sales.

  The dataset is deterministic relative to the current date, so reloading
  the seed always produces the same shape of data.

NOTE:
  Loading the seed resets the database. Only use in development/demo
  environments.
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/colmado/sales-engine/engine"
)

// resetter is implemented by stores that can wipe themselves for a reseed.
type resetter interface {
	Reset(ctx context.Context) error
}

var seedColmados = []engine.Colmado{
	{ID: "o7", Name: "Colmado O7", CutOffDay: 3},
	{ID: "esperanza", Name: "Colmado La Esperanza", CutOffDay: 15},
}

// LoadSeed resets the store and loads the demo dataset.
func (h *Handler) LoadSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rs, ok := h.Store.(resetter)
	if !ok {
		h.writeError(w, http.StatusNotImplemented, "Store does not support seeding", nil)
		return
	}
	if err := rs.Reset(ctx); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}

	for _, c := range seedColmados {
		if err := h.seedColmado(ctx, c); err != nil {
			h.writeError(w, http.StatusInternalServerError, "Failed to seed "+string(c.ID), err)
			return
		}
	}

	h.Log.Info().Int("colmados", len(seedColmados)).Msg("seed loaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"colmados": len(seedColmados),
	})
}

func (h *Handler) seedColmado(ctx context.Context, c engine.Colmado) error {
	if err := h.Store.SaveColmado(ctx, c); err != nil {
		return err
	}

	cycle, err := c.CurrentCycle(engine.Today())
	if err != nil {
		return err
	}

	// Twelve monthly snapshots, newest at the close of the previous cycle.
	// Sales vary with a simple seasonal profile: stronger Oct-Dec, weaker
	// Jan-Mar.
	date := cycle.Start.AddDays(-1)
	for i := 0; i < 12; i++ {
		sales := decimal.NewFromInt(520000 + int64(i%5)*23000)
		switch date.Month() {
		case 10, 11, 12:
			sales = sales.Mul(decimal.NewFromFloat(1.2))
		case 1, 2, 3:
			sales = sales.Mul(decimal.NewFromFloat(0.88))
		}

		raw := engine.RawBalance{
			Sales:          sales,
			Expenses:       sales.Mul(decimal.NewFromFloat(0.18)),
			WorkingCapital: sales.Mul(decimal.NewFromFloat(0.76)),
			Liabilities:    decimal.NewFromInt(13000 + int64(i)*450),
			TotalAssets:    sales.Mul(decimal.NewFromFloat(0.88)),
		}
		snapshot, err := engine.DeriveBalance(date, raw)
		if err != nil {
			return fmt.Errorf("seed balance %s: %w", date, err)
		}
		if err := h.Store.SaveBalance(ctx, c.ID, snapshot); err != nil {
			return err
		}

		prev, err := engine.ResolveCycle(date, c.CutOffDay)
		if err != nil {
			return err
		}
		date = prev.Start.AddDays(-1)
	}

	// Daily sales from the cycle start through yesterday.
	today := engine.Today()
	for day, n := cycle.Start, 0; day.Before(today); day, n = day.AddDays(1), n+1 {
		amount := decimal.NewFromInt(15500 + int64(n%7)*1800)
		record := engine.SalesRecord{Date: day, Amount: amount}
		if err := h.Store.SaveSale(ctx, c.ID, record); err != nil {
			return err
		}
	}
	return nil
}
