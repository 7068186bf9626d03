package worker

import (
	"context"
	"testing"

	"hisaab/internal/core"
	"hisaab/internal/events"
	"hisaab/internal/store/memory"
)

func appendedEvent(owner string, t core.Transaction) *events.TransactionEvent {
	return events.NewTransactionEvent(events.ActionAppended, owner, t)
}

func TestMirrorAppends(t *testing.T) {
	ctx := context.Background()
	archive := memory.New()
	m := NewMirror(archive)

	txn := core.Transaction{
		ID: 42, Kind: core.KindExpense, Category: "Food",
		Amount: core.Money{Cents: 250000}, Date: core.NewDate(2024, 1, 10), Description: "Groceries",
	}
	if err := m.HandleEvent(ctx, appendedEvent("asha", txn)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, _ := archive.Load(ctx, "asha")
	if len(got) != 1 || got[0].Description != "Groceries" {
		t.Fatalf("archive contents: %+v", got)
	}
	// The archive assigns its own identity; the source ID must not leak.
	if got[0].ID != 1 {
		t.Fatalf("archive id: %d", got[0].ID)
	}
}

func TestMirrorDeleteByContent(t *testing.T) {
	ctx := context.Background()
	archive := memory.New()
	m := NewMirror(archive)

	txn := core.Transaction{Kind: core.KindExpense, Category: "Rent", Amount: core.Money{Cents: 1500000}, Date: core.NewDate(2024, 1, 6)}
	other := core.Transaction{Kind: core.KindExpense, Category: "Food", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 7)}
	_ = m.HandleEvent(ctx, appendedEvent("asha", txn))
	_ = m.HandleEvent(ctx, appendedEvent("asha", other))

	del := events.NewTransactionEvent(events.ActionDeleted, "asha", txn)
	if err := m.HandleEvent(ctx, del); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := archive.Load(ctx, "asha")
	if len(got) != 1 || got[0].Category != "Food" {
		t.Fatalf("archive after delete: %+v", got)
	}

	// Redelivery of the same delete is a no-op, not an error.
	if err := m.HandleEvent(ctx, del); err != nil {
		t.Fatalf("redelivered delete: %v", err)
	}
	got, _ = archive.Load(ctx, "asha")
	if len(got) != 1 {
		t.Fatalf("idempotency broken: %+v", got)
	}
}

func TestMirrorRejectsBadEvent(t *testing.T) {
	m := NewMirror(memory.New())
	ev := &events.TransactionEvent{Action: events.ActionAppended, Kind: "bogus", Date: "2024-01-01"}
	if err := m.HandleEvent(context.Background(), ev); err == nil {
		t.Fatalf("expected error for undecodable event")
	}
}
