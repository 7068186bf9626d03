// Package worker mirrors ledger change events into an archive store. The
// primary store stays single-writer (the serving process); the worker
// writes only to its own archive, so event delivery never races the
// read-modify-write cycle the record format depends on.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"hisaab/internal/core"
	"hisaab/internal/events"
	"hisaab/internal/store"
)

type Mirror struct {
	archive store.Store
}

func NewMirror(archive store.Store) *Mirror {
	return &Mirror{archive: archive}
}

// HandleEvent applies one ledger change to the archive. Deletions match by
// field tuple, not ID: the archive assigns its own identities, so content
// is the only correlation that survives the crossing.
func (m *Mirror) HandleEvent(ctx context.Context, ev *events.TransactionEvent) error {
	txn, err := ev.Transaction()
	if err != nil {
		return fmt.Errorf("decode event transaction: %w", err)
	}
	txn.ID = 0 // archive assigns its own

	switch ev.Action {
	case events.ActionAppended:
		saved, err := m.archive.Append(ctx, ev.Owner, txn)
		if err != nil {
			return fmt.Errorf("archive append: %w", err)
		}
		slog.InfoContext(ctx, "Mirrored append", "owner", ev.Owner, "archive_id", saved.ID)
		return nil

	case events.ActionDeleted:
		return m.mirrorDelete(ctx, ev.Owner, txn)

	default:
		slog.WarnContext(ctx, "Ignoring unknown event action", "action", ev.Action)
		return nil
	}
}

func (m *Mirror) mirrorDelete(ctx context.Context, owner string, txn core.Transaction) error {
	txns, err := m.archive.Load(ctx, owner)
	if err != nil {
		return fmt.Errorf("archive load: %w", err)
	}
	matcher := core.MatcherFor(txn)
	idx := -1
	for i, t := range txns {
		if matcher.Matches(t) {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Already absent; deletes are idempotent under redelivery.
		slog.DebugContext(ctx, "Delete event matched nothing in archive", "owner", owner)
		return nil
	}
	kept := append(append([]core.Transaction(nil), txns[:idx]...), txns[idx+1:]...)
	if err := m.archive.Rewrite(ctx, owner, kept); err != nil {
		return fmt.Errorf("archive rewrite: %w", err)
	}
	slog.InfoContext(ctx, "Mirrored delete", "owner", owner)
	return nil
}
