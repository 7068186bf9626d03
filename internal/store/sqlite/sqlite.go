// Package sqlite implements the Store port on an embedded SQLite database.
// Records carry a real primary key here, so the durable identity the CSV
// format lacks comes for free.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"hisaab/internal/core"
	"hisaab/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and brings the
// schema up to date.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load(ctx context.Context, owner string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, category, amount_cents, txn_date, description
		 FROM transactions WHERE owner = ? ORDER BY id`, owner)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			kind     string
			dateText string
		)
		if err := rows.Scan(&t.ID, &kind, &t.Category, &t.Amount.Cents, &dateText, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind, err = core.ParseKind(kind)
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with unknown kind", "id", t.ID, "kind", kind)
			continue
		}
		t.Date, err = core.ParseDate(dateText)
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with bad date", "id", t.ID, "date", dateText)
			continue
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

func (s *Store) Append(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (owner, kind, category, amount_cents, txn_date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		owner, string(t.Kind), t.Category, t.Amount.Cents, t.Date.String(), t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id

	slog.DebugContext(ctx, "Transaction saved",
		"id", t.ID, "owner", owner, "kind", string(t.Kind), "amount_cents", t.Amount.Cents)
	return t, nil
}

// Rewrite replaces the owner's records inside one database transaction;
// concurrent loads observe either the old or the new sequence, never a mix.
func (s *Store) Rewrite(ctx context.Context, owner string, txns []core.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rewrite: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("delete owner transactions: %w", err)
	}
	for _, t := range txns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (owner, kind, category, amount_cents, txn_date, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			owner, string(t.Kind), t.Category, t.Amount.Cents, t.Date.String(), t.Description); err != nil {
			return fmt.Errorf("reinsert transaction: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rewrite: %w", err)
	}
	return nil
}
