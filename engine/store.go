/*
store.go - Persistence collaborator boundary

PURPOSE:
  Defines the interface between the engine and whatever actually persists
  records. The engine treats any successfully fetched sequence as
  authoritative and performs no independent validation of server-assigned
  identities beyond recomputing DateKeys for overwrite checks. Timeouts,
  retries and cancellation belong to implementations, never to the engine.

KEYING CONTRACT:
  Implementations key saved records by the DateKey of the record's date, so
  saving twice for the same calendar day overwrites rather than duplicates. This mirrors the ledgers' upsert semantics server-side.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - engine/store: in-memory store for tests and development
*/
package engine

import "context"

// Store persists sales records and balance snapshots per colmado.
type Store interface {
	// FetchSales returns the sales records inside the inclusive window,
	// ordered by ascending date.
	FetchSales(ctx context.Context, id ColmadoID, window CycleWindow) ([]SalesRecord, error)

	// FetchBalances returns up to limit snapshots, most recent first.
	// limit is a server-side page hint; callers must accept however many
	// were retrieved.
	FetchBalances(ctx context.Context, id ColmadoID, limit int) ([]BalanceSnapshot, error)

	// SaveSale upserts one sales record, keyed by its DateKey.
	SaveSale(ctx context.Context, id ColmadoID, record SalesRecord) error

	// SaveBalance upserts one balance snapshot, keyed by its DateKey.
	SaveBalance(ctx context.Context, id ColmadoID, snapshot BalanceSnapshot) error
}

// ColmadoStore extends Store with the store-configuration collaborator:
// colmado records carry the cut-off day the resolver needs. The engine never
// caches a cut-off day beyond a single resolver call.
type ColmadoStore interface {
	Store

	ListColmados(ctx context.Context) ([]Colmado, error)

	// GetColmado returns nil (without error) when the colmado is unknown.
	GetColmado(ctx context.Context, id ColmadoID) (*Colmado, error)

	SaveColmado(ctx context.Context, c Colmado) error

	// MostRecentSale returns the newest sales record regardless of window,
	// or nil when none exists. Seeds the "next day to enter" suggestion.
	MostRecentSale(ctx context.Context, id ColmadoID) (*SalesRecord, error)
}
