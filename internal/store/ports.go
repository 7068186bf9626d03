// Package store defines the persistence port for transaction records.
package store

import (
	"context"

	"hisaab/internal/core"
)

// Store is the record-store abstraction behind the ledger. Backends (csv
// flat file, sqlite, in-memory) are swappable without touching callers.
//
// Load never fails on a missing or unreadable backing store: both read as
// an empty sequence, and the next successful write establishes a fresh,
// correctly shaped store. Malformed individual rows are skipped on load.
//
// Append is synchronous write-through and assigns the record's ID.
// Rewrite atomically replaces the owner's records with the given sequence;
// a shared backing store leaves other owners' records untouched. A partial
// rewrite is never observable by a subsequent Load.
type Store interface {
	Load(ctx context.Context, owner string) ([]core.Transaction, error)
	Append(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error)
	Rewrite(ctx context.Context, owner string, txns []core.Transaction) error
	Close() error
}
