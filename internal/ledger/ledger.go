// Package ledger implements the transaction ledger on top of a record
// store: append, query, aggregate and delete, partitioned by owner. The
// owner identity is established by the caller; the ledger only partitions
// by it and never authenticates.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"hisaab/internal/core"
	"hisaab/internal/store"
)

// EventPublisher receives change notifications after a successful write.
// Publication is best effort: a failed publish never fails the ledger
// operation, mirroring how the local write always wins over sync.
type EventPublisher interface {
	TransactionAppended(ctx context.Context, owner string, t core.Transaction) error
	TransactionDeleted(ctx context.Context, owner string, t core.Transaction) error
}

type Ledger struct {
	store  store.Store
	events EventPublisher // nil disables publication
}

func New(st store.Store, events EventPublisher) *Ledger {
	return &Ledger{store: st, events: events}
}

// Append validates and durably records one transaction. The kind is
// canonicalized and a blank date defaults to today. Callers are expected
// to have validated already; this is the defensive second check, and a
// validation failure means nothing was persisted.
func (l *Ledger) Append(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error) {
	kind, err := core.ParseKind(string(t.Kind))
	if err != nil {
		return core.Transaction{}, err
	}
	t.Kind = kind
	if t.Date.IsZero() {
		t.Date = core.Today()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := l.store.Append(ctx, owner, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	l.publishAppended(ctx, owner, saved)
	return saved, nil
}

// List returns the owner's full ledger in insertion order.
func (l *Ledger) List(ctx context.Context, owner string) ([]core.Transaction, error) {
	return l.store.Load(ctx, owner)
}

// Filter returns the matching transactions in insertion order. Sorting is
// the caller's business, composed over the result.
func (l *Ledger) Filter(ctx context.Context, owner string, f core.Filter) ([]core.Transaction, error) {
	txns, err := l.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return f.Apply(txns), nil
}

// Overview computes the month's summary and expense breakdown. Both are
// plain aggregations over the filtered view, so a zero month/year yields
// the all-time figures.
func (l *Ledger) Overview(ctx context.Context, owner string, year, month int) (core.Summary, []core.CategoryAmount, error) {
	txns, err := l.Filter(ctx, owner, core.Filter{Year: year, Month: month})
	if err != nil {
		return core.Summary{}, nil, err
	}
	return core.Summarize(txns), core.GroupByCategory(txns, core.KindExpense), nil
}

// DeleteMatching removes every transaction equal to the matcher's tuple.
// Duplicates all go; that is the record format's documented semantics. A
// zero count is "not found", not an error.
func (l *Ledger) DeleteMatching(ctx context.Context, owner string, m core.FieldMatcher) (int, error) {
	txns, err := l.store.Load(ctx, owner)
	if err != nil {
		return 0, err
	}
	var (
		kept    []core.Transaction
		removed []core.Transaction
	)
	for _, t := range txns {
		if m.Matches(t) {
			removed = append(removed, t)
		} else {
			kept = append(kept, t)
		}
	}
	if len(removed) == 0 {
		return 0, nil
	}
	if err := l.store.Rewrite(ctx, owner, kept); err != nil {
		return 0, fmt.Errorf("rewrite after delete: %w", err)
	}
	for _, t := range removed {
		l.publishDeleted(ctx, owner, t)
	}
	return len(removed), nil
}

// DeleteAt removes the record shown at the 1-based position of view, a
// sorted or filtered slice the caller previously presented. The record is
// resolved by the identity it carried when displayed, not re-resolved by
// content, so re-sorting between display and delete cannot remove the
// wrong row. Out of range or no longer present reads as zero removed.
func (l *Ledger) DeleteAt(ctx context.Context, owner string, view []core.Transaction, position int) (int, error) {
	if position < 1 || position > len(view) {
		return 0, nil
	}
	target := view[position-1]

	txns, err := l.store.Load(ctx, owner)
	if err != nil {
		return 0, err
	}
	idx := -1
	for i, t := range txns {
		if target.ID != 0 && t.ID == target.ID && core.MatcherFor(target).Matches(t) {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Legacy views without identities fall back to first content match.
		m := core.MatcherFor(target)
		for i, t := range txns {
			if m.Matches(t) {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		return 0, nil
	}

	kept := append(append([]core.Transaction(nil), txns[:idx]...), txns[idx+1:]...)
	if err := l.store.Rewrite(ctx, owner, kept); err != nil {
		return 0, fmt.Errorf("rewrite after delete: %w", err)
	}
	l.publishDeleted(ctx, owner, txns[idx])
	return 1, nil
}

// Clear removes every record for the owner. On a shared store, other
// owners' records and their order survive.
func (l *Ledger) Clear(ctx context.Context, owner string) error {
	txns, err := l.store.Load(ctx, owner)
	if err != nil {
		return err
	}
	if err := l.store.Rewrite(ctx, owner, nil); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	for _, t := range txns {
		l.publishDeleted(ctx, owner, t)
	}
	return nil
}

func (l *Ledger) publishAppended(ctx context.Context, owner string, t core.Transaction) {
	if l.events == nil {
		return
	}
	if err := l.events.TransactionAppended(ctx, owner, t); err != nil {
		slog.WarnContext(ctx, "Failed to publish append event", "owner", owner, "id", t.ID, "error", err)
	}
}

func (l *Ledger) publishDeleted(ctx context.Context, owner string, t core.Transaction) {
	if l.events == nil {
		return
	}
	if err := l.events.TransactionDeleted(ctx, owner, t); err != nil {
		slog.WarnContext(ctx, "Failed to publish delete event", "owner", owner, "id", t.ID, "error", err)
	}
}
