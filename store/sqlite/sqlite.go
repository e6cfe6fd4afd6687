/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements engine.ColmadoStore using SQLite. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  colmados: Store records with their configured cut-off day
  ventas:   Daily sales, one row per colmado per calendar day
  balances: Balance snapshots with their derived fields, one row per
            colmado per calendar day

UPSERT KEYING:
  ventas and balances are keyed by (colmado_id, date_key), where date_key is
  the canonical DateKey of the record's date. Saving twice for the same day
  hits ON CONFLICT DO UPDATE: overwrite, never duplicate. Date keys sort
  lexicographically in chronological order, so ORDER BY date_key is date
  order.

MONEY COLUMNS:
  Decimal values are stored as TEXT and parsed with shopspring/decimal to
  avoid floating-point drift.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/colmados.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: interface definitions
  - engine/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/colmado/sales-engine/engine"
)

// Store implements engine.ColmadoStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS colmados (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cut_off_day INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- One row per colmado per calendar day; date_key is the canonical
	-- "YYYY-MM-DD" identity, so the primary key enforces the upsert contract.
	CREATE TABLE IF NOT EXISTS ventas (
		colmado_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		amount TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (colmado_id, date_key)
	);

	CREATE TABLE IF NOT EXISTS balances (
		colmado_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		total_assets TEXT NOT NULL,
		working_capital TEXT NOT NULL,
		liabilities TEXT NOT NULL,
		expenses TEXT NOT NULL,
		sales TEXT NOT NULL,
		net_profit TEXT NOT NULL,
		gross_profit TEXT NOT NULL,
		net_margin TEXT NOT NULL,
		gross_margin TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (colmado_id, date_key)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COLMADOS
// =============================================================================

// SaveColmado inserts or updates a colmado record.
func (s *Store) SaveColmado(ctx context.Context, c engine.Colmado) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO colmados (id, name, cut_off_day, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cut_off_day = excluded.cut_off_day`,
		string(c.ID), c.Name, c.CutOffDay, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetColmado returns a colmado by ID, or nil if not found.
func (s *Store) GetColmado(ctx context.Context, id engine.ColmadoID) (*engine.Colmado, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, cut_off_day FROM colmados WHERE id = ?`, string(id))

	var c engine.Colmado
	var rawID string
	if err := row.Scan(&rawID, &c.Name, &c.CutOffDay); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.ID = engine.ColmadoID(rawID)
	return &c, nil
}

// ListColmados returns all colmados ordered by ID.
func (s *Store) ListColmados(ctx context.Context) ([]engine.Colmado, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, cut_off_day FROM colmados ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colmados []engine.Colmado
	for rows.Next() {
		var c engine.Colmado
		var rawID string
		if err := rows.Scan(&rawID, &c.Name, &c.CutOffDay); err != nil {
			return nil, err
		}
		c.ID = engine.ColmadoID(rawID)
		colmados = append(colmados, c)
	}
	return colmados, rows.Err()
}

// =============================================================================
// VENTAS
// =============================================================================

// SaveSale upserts a sales record keyed by its DateKey.
func (s *Store) SaveSale(ctx context.Context, id engine.ColmadoID, record engine.SalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ventas (colmado_id, date_key, amount, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(colmado_id, date_key) DO UPDATE SET
			amount = excluded.amount,
			updated_at = excluded.updated_at`,
		string(id), string(record.Key()), record.Amount.String(),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// FetchSales returns the sales records inside the inclusive window, oldest
// first.
func (s *Store) FetchSales(ctx context.Context, id engine.ColmadoID, window engine.CycleWindow) ([]engine.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date_key, amount FROM ventas
		WHERE colmado_id = ? AND date_key >= ? AND date_key <= ?
		ORDER BY date_key ASC`,
		string(id), string(window.Start.Key()), string(window.End.Key()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.SalesRecord
	for rows.Next() {
		record, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// MostRecentSale returns the newest sales record, or nil if none exists.
func (s *Store) MostRecentSale(ctx context.Context, id engine.ColmadoID) (*engine.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date_key, amount FROM ventas
		WHERE colmado_id = ?
		ORDER BY date_key DESC LIMIT 1`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	record, err := scanSale(rows)
	if err != nil {
		return nil, err
	}
	return &record, rows.Err()
}

func scanSale(rows *sql.Rows) (engine.SalesRecord, error) {
	var dateKey, amount string
	if err := rows.Scan(&dateKey, &amount); err != nil {
		return engine.SalesRecord{}, err
	}

	day, err := engine.DateKey(dateKey).Day()
	if err != nil {
		return engine.SalesRecord{}, err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return engine.SalesRecord{}, fmt.Errorf("bad amount for %s: %w", dateKey, err)
	}
	return engine.SalesRecord{Date: day, Amount: value}, nil
}

// =============================================================================
// BALANCES
// =============================================================================

// SaveBalance upserts a balance snapshot keyed by its DateKey. Derived
// fields are persisted as-is: snapshots are self-contained and the store
// never recomputes them.
func (s *Store) SaveBalance(ctx context.Context, id engine.ColmadoID, snapshot engine.BalanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (
			colmado_id, date_key,
			total_assets, working_capital, liabilities, expenses, sales,
			net_profit, gross_profit, net_margin, gross_margin,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(colmado_id, date_key) DO UPDATE SET
			total_assets = excluded.total_assets,
			working_capital = excluded.working_capital,
			liabilities = excluded.liabilities,
			expenses = excluded.expenses,
			sales = excluded.sales,
			net_profit = excluded.net_profit,
			gross_profit = excluded.gross_profit,
			net_margin = excluded.net_margin,
			gross_margin = excluded.gross_margin,
			updated_at = excluded.updated_at`,
		string(id), string(snapshot.Key()),
		snapshot.TotalAssets.String(), snapshot.WorkingCapital.String(),
		snapshot.Liabilities.String(), snapshot.Expenses.String(),
		snapshot.Sales.String(),
		snapshot.NetProfit.String(), snapshot.GrossProfit.String(),
		snapshot.NetMargin.String(), snapshot.GrossMargin.String(),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// FetchBalances returns up to limit snapshots, most recent first.
func (s *Store) FetchBalances(ctx context.Context, id engine.ColmadoID, limit int) ([]engine.BalanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date_key,
			total_assets, working_capital, liabilities, expenses, sales,
			net_profit, gross_profit, net_margin, gross_margin
		FROM balances
		WHERE colmado_id = ?
		ORDER BY date_key DESC LIMIT ?`, string(id), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []engine.BalanceSnapshot
	for rows.Next() {
		var dateKey string
		cols := make([]string, 9)
		dest := []any{&dateKey}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		day, err := engine.DateKey(dateKey).Day()
		if err != nil {
			return nil, err
		}

		values := make([]decimal.Decimal, len(cols))
		for i, c := range cols {
			v, err := decimal.NewFromString(c)
			if err != nil {
				return nil, fmt.Errorf("bad balance column for %s: %w", dateKey, err)
			}
			values[i] = v
		}

		snapshots = append(snapshots, engine.BalanceSnapshot{
			Date: day,
			RawBalance: engine.RawBalance{
				TotalAssets:    values[0],
				WorkingCapital: values[1],
				Liabilities:    values[2],
				Expenses:       values[3],
				Sales:          values[4],
			},
			NetProfit:   values[5],
			GrossProfit: values[6],
			NetMargin:   values[7],
			GrossMargin: values[8],
		})
	}
	return snapshots, rows.Err()
}

// =============================================================================
// RESET
// =============================================================================

// Reset clears all data. Only used by the demo seed loader.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"ventas", "balances", "colmados"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
