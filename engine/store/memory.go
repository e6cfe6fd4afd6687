// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/colmado/sales-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	colmados map[engine.ColmadoID]engine.Colmado
	sales    map[engine.ColmadoID]map[engine.DateKey]engine.SalesRecord
	balances map[engine.ColmadoID]map[engine.DateKey]engine.BalanceSnapshot
}

func NewMemory() *Memory {
	return &Memory{
		colmados: make(map[engine.ColmadoID]engine.Colmado),
		sales:    make(map[engine.ColmadoID]map[engine.DateKey]engine.SalesRecord),
		balances: make(map[engine.ColmadoID]map[engine.DateKey]engine.BalanceSnapshot),
	}
}

// SaveSale upserts a record keyed by its DateKey; same-day saves overwrite.
func (m *Memory) SaveSale(_ context.Context, id engine.ColmadoID, record engine.SalesRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sales[id] == nil {
		m.sales[id] = make(map[engine.DateKey]engine.SalesRecord)
	}
	m.sales[id][record.Key()] = record
	return nil
}

func (m *Memory) FetchSales(_ context.Context, id engine.ColmadoID, window engine.CycleWindow) ([]engine.SalesRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.SalesRecord
	for _, r := range m.sales[id] {
		if window.Contains(r.Date) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) MostRecentSale(_ context.Context, id engine.ColmadoID) (*engine.SalesRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var newest *engine.SalesRecord
	for _, r := range m.sales[id] {
		r := r
		if newest == nil || r.Date.After(newest.Date) {
			newest = &r
		}
	}
	return newest, nil
}

// SaveBalance upserts a snapshot keyed by its DateKey; same-day saves overwrite.
func (m *Memory) SaveBalance(_ context.Context, id engine.ColmadoID, snapshot engine.BalanceSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[id] == nil {
		m.balances[id] = make(map[engine.DateKey]engine.BalanceSnapshot)
	}
	m.balances[id][snapshot.Key()] = snapshot
	return nil
}

func (m *Memory) FetchBalances(_ context.Context, id engine.ColmadoID, limit int) ([]engine.BalanceSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.BalanceSnapshot
	for _, s := range m.balances[id] {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *Memory) SaveColmado(_ context.Context, c engine.Colmado) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colmados[c.ID] = c
	return nil
}

func (m *Memory) GetColmado(_ context.Context, id engine.ColmadoID) (*engine.Colmado, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.colmados[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) ListColmados(_ context.Context) ([]engine.Colmado, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.Colmado, 0, len(m.colmados))
	for _, c := range m.colmados {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Reset clears all data. Used by the demo seed loader.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.colmados = make(map[engine.ColmadoID]engine.Colmado)
	m.sales = make(map[engine.ColmadoID]map[engine.DateKey]engine.SalesRecord)
	m.balances = make(map[engine.ColmadoID]map[engine.DateKey]engine.BalanceSnapshot)
	return nil
}
