/*
handlers.go - HTTP API handlers for the colmado sales and balance engine

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and input validation, then delegates to the engine. The
  engine itself produces no user-facing text; this layer translates its
  typed failures into status codes and messages.

ENDPOINTS:
  Colmados:
    GET    /api/colmados                    List stores
    POST   /api/colmados                    Register a store
    GET    /api/colmados/{id}               Get one store
    GET    /api/colmados/{id}/cycle         Resolve a billing window

  Ventas:
    GET    /api/colmados/{id}/ventas        Sales in a window, with running totals
    POST   /api/colmados/{id}/ventas        Record one day's sales (upsert)

  Balances:
    GET    /api/colmados/{id}/balances      Snapshots, most recent first
    POST   /api/colmados/{id}/balances      Record a period's balance (upsert)

  Seed:
    POST   /api/seed                        Load demo data (dev only)

ERROR HANDLING:
  - 400: invalid cut-off day, negative fields, malformed dates/body
  - 404: unknown colmado
  - 500: storage failures

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
  - seed.go: demo data loader
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/colmado/sales-engine/engine"
)

// defaultBalancePage bounds balance listings when the client gives no limit.
const defaultBalancePage = 24

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store engine.ColmadoStore
	Log   zerolog.Logger
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store engine.ColmadoStore, log zerolog.Logger) *Handler {
	return &Handler{Store: store, Log: log}
}

// =============================================================================
// COLMADO HANDLERS
// =============================================================================

// ListColmados returns all registered stores.
func (h *Handler) ListColmados(w http.ResponseWriter, r *http.Request) {
	colmados, err := h.Store.ListColmados(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list colmados", err)
		return
	}

	dtos := make([]ColmadoDTO, len(colmados))
	for i, c := range colmados {
		dtos[i] = toColmadoDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateColmado registers a store. The cut-off day is validated here, once,
// and never clamped.
func (h *Handler) CreateColmado(w http.ResponseWriter, r *http.Request) {
	var req CreateColmadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if err := engine.ValidateCutOffDay(req.CutOffDay); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid cut_off_day", err)
		return
	}

	c := engine.Colmado{ID: engine.ColmadoID(req.ID), Name: req.Name, CutOffDay: req.CutOffDay}
	if err := h.Store.SaveColmado(r.Context(), c); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save colmado", err)
		return
	}
	writeJSON(w, http.StatusCreated, toColmadoDTO(c))
}

// GetColmado returns a single store.
func (h *Handler) GetColmado(w http.ResponseWriter, r *http.Request) {
	c, ok := h.colmadoFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toColmadoDTO(*c))
}

// GetCycle resolves the billing window containing ?date (default: today)
// for the store's configured cut-off day.
func (h *Handler) GetCycle(w http.ResponseWriter, r *http.Request) {
	c, ok := h.colmadoFromPath(w, r)
	if !ok {
		return
	}

	reference := engine.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := engine.DateKey(raw).Day()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		reference = day
	}

	window, err := c.CurrentCycle(reference)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to resolve cycle", err)
		return
	}
	writeJSON(w, http.StatusOK, toCycleDTO(window))
}

// =============================================================================
// VENTA HANDLERS
// =============================================================================

// ListVentas returns the sales of a window (explicit ?from/?to, or the
// current billing cycle) with running cumulative totals, plus the suggested
// next entry date.
func (h *Handler) ListVentas(w http.ResponseWriter, r *http.Request) {
	c, ok := h.colmadoFromPath(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	window, err := h.windowForQuery(r, *c)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid window", err)
		return
	}

	records, err := h.Store.FetchSales(ctx, c.ID, window)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch ventas", err)
		return
	}

	// Replay the fetched records through the ledger; the fetched sequence is
	// authoritative, the ledger re-keys it and produces the running totals.
	ledger := engine.NewSalesLedger()
	for _, record := range records {
		if err := ledger.Upsert(record); err != nil {
			h.writeError(w, http.StatusInternalServerError, "Corrupt sales record", err)
			return
		}
	}

	entries := ledger.CumulativeSum(window)
	ventas := make([]VentaDTO, len(entries))
	total := 0.0
	for i, e := range entries {
		amount, _ := e.Record.Amount.Float64()
		cumulative, _ := e.Total.Float64()
		ventas[i] = VentaDTO{
			Date:       string(e.Record.Key()),
			Amount:     amount,
			Cumulative: cumulative,
		}
		total = cumulative
	}

	resp := VentasResponse{
		ColmadoID: string(c.ID),
		Cycle:     toCycleDTO(window),
		Ventas:    ventas,
		Total:     total,
	}
	if newest, err := h.Store.MostRecentSale(ctx, c.ID); err == nil && newest != nil {
		resp.NextDate = string(newest.Date.AddDays(1).Key())
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubmitVenta records one day's sales. A second submission for the same
// calendar date overwrites the first; the day's identity comes from the
// date alone.
func (h *Handler) SubmitVenta(w http.ResponseWriter, r *http.Request) {
	c, ok := h.colmadoFromPath(w, r)
	if !ok {
		return
	}

	var req SubmitVentaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := engine.DateKey(req.Date).Day()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	record := engine.SalesRecord{Date: day, Amount: decimal.NewFromFloat(req.Amount)}
	if err := record.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid venta", err)
		return
	}

	if err := h.Store.SaveSale(r.Context(), c.ID, record); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save venta", err)
		return
	}

	amount, _ := record.Amount.Float64()
	writeJSON(w, http.StatusCreated, VentaDTO{Date: string(record.Key()), Amount: amount})
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// ListBalances returns up to ?limit snapshots (default 24), most recent
// first. The store's page size is a hint: the response carries however many
// were retrieved.
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	c, ok := h.colmadoFromPath(w, r)
	if !ok {
		return
	}

	limit := defaultBalancePage
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	snapshots, err := h.Store.FetchBalances(r.Context(), c.ID, limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch balances", err)
		return
	}

	dtos := make([]BalanceDTO, len(snapshots))
	for i, s := range snapshots {
		dtos[i] = toBalanceDTO(s)
	}
	writeJSON(w, http.StatusOK, BalancesResponse{ColmadoID: string(c.ID), Balances: dtos})
}

// SubmitBalance records a period's raw balance. Profit and margin fields are
// derived here, once, and stored with the snapshot; a later resubmission for
// the same date overwrites the whole snapshot.
func (h *Handler) SubmitBalance(w http.ResponseWriter, r *http.Request) {
	c, ok := h.colmadoFromPath(w, r)
	if !ok {
		return
	}

	var req SubmitBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := engine.DateKey(req.Date).Day()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	raw := engine.RawBalance{
		TotalAssets:    decimal.NewFromFloat(req.TotalAssets),
		WorkingCapital: decimal.NewFromFloat(req.WorkingCapital),
		Liabilities:    decimal.NewFromFloat(req.Liabilities),
		Expenses:       decimal.NewFromFloat(req.Expenses),
		Sales:          decimal.NewFromFloat(req.Sales),
	}

	snapshot, err := engine.DeriveBalance(day, raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid balance", err)
		return
	}

	if err := h.Store.SaveBalance(r.Context(), c.ID, snapshot); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save balance", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceDTO(snapshot))
}

// =============================================================================
// HELPERS
// =============================================================================

// colmadoFromPath loads the colmado named in the URL, writing the error
// response itself when the lookup fails.
func (h *Handler) colmadoFromPath(w http.ResponseWriter, r *http.Request) (*engine.Colmado, bool) {
	id := engine.ColmadoID(chi.URLParam(r, "id"))

	c, err := h.Store.GetColmado(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get colmado", err)
		return nil, false
	}
	if c == nil {
		h.writeError(w, http.StatusNotFound, "Colmado not found", nil)
		return nil, false
	}
	return c, true
}

// windowForQuery builds the query window: both ?from and ?to when given,
// otherwise the current billing cycle.
func (h *Handler) windowForQuery(r *http.Request, c engine.Colmado) (engine.CycleWindow, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		return c.CurrentCycle(engine.Today())
	}

	start, err := engine.DateKey(from).Day()
	if err != nil {
		return engine.CycleWindow{}, err
	}
	end, err := engine.DateKey(to).Day()
	if err != nil {
		return engine.CycleWindow{}, err
	}
	if end.Before(start) {
		return engine.CycleWindow{}, fmt.Errorf("window end %s before start %s", end, start)
	}
	return engine.CycleWindow{Start: start, End: end}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	if status >= http.StatusInternalServerError {
		h.Log.Error().Err(err).Int("status", status).Msg(msg)
	} else {
		h.Log.Debug().Err(err).Int("status", status).Msg(msg)
	}
	writeJSON(w, status, resp)
}
