/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the engine's
  decimal-based domain model from the external contract. Dates cross the
  wire as canonical "YYYY-MM-DD" keys; money crosses as plain numbers
  (formatting, currency and locale are entirely the client's concern).

VALIDATION:
  Handlers validate; DTOs are pure data carriers.
*/
package api

import (
	"github.com/colmado/sales-engine/engine"
)

// =============================================================================
// COLMADOS
// =============================================================================

// ColmadoDTO represents a store in API responses.
type ColmadoDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CutOffDay int    `json:"cut_off_day"`
}

// CreateColmadoRequest is the request to register a store.
type CreateColmadoRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CutOffDay int    `json:"cut_off_day"`
}

func toColmadoDTO(c engine.Colmado) ColmadoDTO {
	return ColmadoDTO{ID: string(c.ID), Name: c.Name, CutOffDay: c.CutOffDay}
}

// =============================================================================
// CYCLES
// =============================================================================

// CycleDTO is a resolved billing window, both bounds inclusive.
type CycleDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toCycleDTO(w engine.CycleWindow) CycleDTO {
	return CycleDTO{Start: string(w.Start.Key()), End: string(w.End.Key())}
}

// =============================================================================
// VENTAS
// =============================================================================

// VentaDTO is one day's sales with its running total inside the queried
// window.
type VentaDTO struct {
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Cumulative float64 `json:"cumulative"`
}

// VentasResponse lists a cycle's sales, oldest first.
type VentasResponse struct {
	ColmadoID string     `json:"colmado_id"`
	Cycle     CycleDTO   `json:"cycle"`
	Ventas    []VentaDTO `json:"ventas"`
	Total     float64    `json:"total"`
	// NextDate suggests the next entry date: the day after the newest
	// recorded sale, or empty when no sales exist yet.
	NextDate string `json:"next_date,omitempty"`
}

// SubmitVentaRequest records one day's sales. Submitting the same date twice
// overwrites the earlier amount.
type SubmitVentaRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// =============================================================================
// BALANCES
// =============================================================================

// BalanceDTO is a stored snapshot: raw inputs plus derived fields.
type BalanceDTO struct {
	Date           string  `json:"date"`
	TotalAssets    float64 `json:"total_assets"`
	WorkingCapital float64 `json:"working_capital"`
	Liabilities    float64 `json:"liabilities"`
	Expenses       float64 `json:"expenses"`
	Sales          float64 `json:"sales"`
	NetProfit      float64 `json:"net_profit"`
	GrossProfit    float64 `json:"gross_profit"`
	NetMargin      float64 `json:"net_margin"`
	GrossMargin    float64 `json:"gross_margin"`
}

func toBalanceDTO(s engine.BalanceSnapshot) BalanceDTO {
	totalAssets, _ := s.TotalAssets.Float64()
	workingCapital, _ := s.WorkingCapital.Float64()
	liabilities, _ := s.Liabilities.Float64()
	expenses, _ := s.Expenses.Float64()
	sales, _ := s.Sales.Float64()
	netProfit, _ := s.NetProfit.Float64()
	grossProfit, _ := s.GrossProfit.Float64()
	netMargin, _ := s.NetMargin.Float64()
	grossMargin, _ := s.GrossMargin.Float64()

	return BalanceDTO{
		Date:           string(s.Key()),
		TotalAssets:    totalAssets,
		WorkingCapital: workingCapital,
		Liabilities:    liabilities,
		Expenses:       expenses,
		Sales:          sales,
		NetProfit:      netProfit,
		GrossProfit:    grossProfit,
		NetMargin:      netMargin,
		GrossMargin:    grossMargin,
	}
}

// BalancesResponse lists snapshots, most recent accounting period first.
type BalancesResponse struct {
	ColmadoID string       `json:"colmado_id"`
	Balances  []BalanceDTO `json:"balances"`
}

// SubmitBalanceRequest records a period's raw balance. The derived fields
// are computed server-side; clients never submit them.
type SubmitBalanceRequest struct {
	Date           string  `json:"date"`
	TotalAssets    float64 `json:"total_assets"`
	WorkingCapital float64 `json:"working_capital"`
	Liabilities    float64 `json:"liabilities"`
	Expenses       float64 `json:"expenses"`
	Sales          float64 `json:"sales"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
