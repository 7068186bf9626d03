package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"hisaab/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "hisaab.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.Append(ctx, "asha", core.Transaction{
		Kind: core.KindIncome, Category: "Salary",
		Amount: core.Money{Cents: 5000000}, Date: core.NewDate(2024, 1, 5), Description: "Jan salary",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if _, err := s.Append(ctx, "asha", core.Transaction{
		Kind: core.KindExpense, Category: "Rent",
		Amount: core.Money{Cents: 1500000}, Date: core.NewDate(2024, 1, 6),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	txns, err := s.Load(ctx, "asha")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2, got %d", len(txns))
	}
	if txns[0].Description != "Jan salary" || txns[1].Category != "Rent" {
		t.Fatalf("order or content wrong: %+v", txns)
	}
	if txns[0].Date.String() != "2024-01-05" {
		t.Fatalf("date round-trip: %s", txns[0].Date)
	}
}

func TestRewriteAndOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Append(ctx, "asha", core.Transaction{
			Kind: core.KindExpense, Category: "Misc",
			Amount: core.Money{Cents: int64(100 * (i + 1))}, Date: core.NewDate(2024, 1, i+1),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := s.Append(ctx, "ravi", core.Transaction{
		Kind: core.KindExpense, Category: "Food",
		Amount: core.Money{Cents: 500}, Date: core.NewDate(2024, 1, 2), Description: "chai",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, _ := s.Load(ctx, "asha")
	if err := s.Rewrite(ctx, "asha", all[1:]); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	asha, _ := s.Load(ctx, "asha")
	if len(asha) != 2 || asha[0].Amount.Cents != 200 {
		t.Fatalf("rewrite result: %+v", asha)
	}

	ravi, _ := s.Load(ctx, "ravi")
	if len(ravi) != 1 || ravi[0].Description != "chai" {
		t.Fatalf("other owner disturbed: %+v", ravi)
	}
}

func TestLoadUnknownOwnerIsEmpty(t *testing.T) {
	s := newTestStore(t)
	txns, err := s.Load(context.Background(), "nobody")
	if err != nil || len(txns) != 0 {
		t.Fatalf("got (%v, %v)", txns, err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hisaab.db")
	s1, err := New(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s1.Close()
	s2, err := New(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s2.Close()
}
