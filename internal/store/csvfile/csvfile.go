// Package csvfile implements the Store port over the flat CSV record
// format shared by every variant of the original tool. The column set
// `type,category,amount,date,description` is the compatibility contract;
// a shared store carries a trailing `owner` column instead of one file
// per owner.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"hisaab/internal/core"
)

var (
	ownerHeader  = []string{"type", "category", "amount", "date", "description"}
	sharedHeader = []string{"type", "category", "amount", "date", "description", "owner"}
)

type Store struct {
	dir    string
	shared bool

	// Serializes the read-modify-write cycle within this process. Nothing
	// guards against concurrent writers in other processes; the record
	// format has no locking story and last writer wins.
	mu sync.Mutex
}

// New returns a CSV store rooted at dir. When shared is true all owners
// live in one transactions.csv with an owner column; otherwise each owner
// gets <owner>_transactions.csv.
func New(dir string, shared bool) *Store {
	return &Store{dir: dir, shared: shared}
}

func (s *Store) path(owner string) string {
	if s.shared {
		return filepath.Join(s.dir, "transactions.csv")
	}
	return filepath.Join(s.dir, sanitizeOwner(owner)+"_transactions.csv")
}

// sanitizeOwner mirrors the original login flow: names are lowercased, and
// anything that could escape the data directory is stripped.
func sanitizeOwner(owner string) string {
	owner = strings.ToLower(strings.TrimSpace(owner))
	var b strings.Builder
	for _, r := range owner {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

func (s *Store) header() []string {
	if s.shared {
		return sharedHeader
	}
	return ownerHeader
}

// ownerMatches compares owner labels in their sanitized form, the same
// form Append writes into the owner column. Rows from older files may
// carry a raw label; sanitizing both sides keeps them reachable.
func ownerMatches(rowOwner, owner string) bool {
	return sanitizeOwner(rowOwner) == sanitizeOwner(owner)
}

// Load reads the owner's records in stored order. A missing file, a wrong
// header, or a wholly unreadable file all read as an empty sequence; per
// the record-format contract that is "no data", never an error.
func (s *Store) Load(ctx context.Context, owner string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns, _ := s.loadLocked(ctx, owner)
	return txns, nil
}

// loadLocked is Load without the locking, shared with Append so the ID it
// assigns continues the same numbering a reload would produce. readable is
// false when the backing file had to be treated as empty.
func (s *Store) loadLocked(ctx context.Context, owner string) ([]core.Transaction, bool) {
	rows, readable := s.readRaw(ctx, owner)
	if !readable {
		return nil, false
	}
	var (
		txns []core.Transaction
		id   int64
	)
	for _, row := range rows {
		if s.shared && !ownerMatches(row.owner, owner) {
			continue
		}
		t, ok := parseRow(ctx, row.fields)
		if !ok {
			continue
		}
		id++
		t.ID = id
		txns = append(txns, t)
	}
	return txns, true
}

// rawRow keeps the original field values so a rewrite can carry other
// owners' rows through byte-for-byte.
type rawRow struct {
	fields []string
	owner  string
}

// readRaw returns every data row of the backing file. readable is false
// for a missing file, a wrong header, or a file the CSV reader cannot
// make sense of at all.
func (s *Store) readRaw(ctx context.Context, owner string) ([]rawRow, bool) {
	f, err := os.Open(s.path(owner))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, false
	}
	if !headerMatches(header, s.header()) {
		slog.WarnContext(ctx, "Record store schema mismatch, treating as empty",
			"path", s.path(owner), "header", strings.Join(header, ","))
		return nil, false
	}

	var rows []rawRow
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken row; skip it, keep going.
			slog.WarnContext(ctx, "Skipping unreadable record row", "path", s.path(owner), "error", err)
			continue
		}
		if len(fields) < len(s.header()) {
			continue
		}
		row := rawRow{fields: fields[:len(ownerHeader)]}
		if s.shared {
			row.owner = fields[len(sharedHeader)-1]
		}
		rows = append(rows, row)
	}
	return rows, true
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}

func parseRow(ctx context.Context, fields []string) (core.Transaction, bool) {
	kind, err := core.ParseKind(fields[0])
	if err != nil {
		slog.DebugContext(ctx, "Skipping row with bad kind", "value", fields[0])
		return core.Transaction{}, false
	}
	cents, err := core.ParseAmount(fields[2])
	if err != nil {
		slog.DebugContext(ctx, "Skipping row with bad amount", "value", fields[2])
		return core.Transaction{}, false
	}
	date, err := core.ParseDate(strings.TrimSpace(fields[3]))
	if err != nil {
		slog.DebugContext(ctx, "Skipping row with bad date", "value", fields[3])
		return core.Transaction{}, false
	}
	return core.Transaction{
		Kind:        kind,
		Category:    strings.TrimSpace(fields[1]),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: fields[4],
	}, true
}

// record serializes one transaction; the shared owner column carries the
// sanitized label, the same form every lookup compares against.
func (s *Store) record(owner string, t core.Transaction) []string {
	row := []string{string(t.Kind), t.Category, t.Amount.String(), t.Date.String(), t.Description}
	if s.shared {
		row = append(row, sanitizeOwner(owner))
	}
	return row
}

// Append writes one record through to disk immediately. The backing file
// and its header are created lazily on the first write; an existing but
// unreadable file is replaced wholesale, which is how the next successful
// write re-establishes a correctly shaped store.
func (s *Store) Append(ctx context.Context, owner string, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(owner)
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if exists {
		if txns, readable := s.loadLocked(ctx, owner); readable {
			if err := s.appendRow(path, s.record(owner, t)); err != nil {
				return core.Transaction{}, err
			}
			// Malformed rows are invisible to Load, so the ID continues
			// the parsed numbering, not the raw row count.
			t.ID = int64(len(txns)) + 1
			return t, nil
		}
		slog.WarnContext(ctx, "Replacing unreadable record store", "path", path)
	}

	if err := s.writeFile(path, [][]string{s.record(owner, t)}); err != nil {
		return core.Transaction{}, err
	}
	t.ID = 1
	return t, nil
}

func (s *Store) appendRow(path string, row []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close record store: %w", err)
	}
	return nil
}

// Rewrite replaces the owner's records with txns using truncate-and-rewrite
// semantics: the new contents land in a temp file that is renamed over the
// old one, so a half-written store is never loadable. In a shared store,
// other owners' rows are carried through untouched and in order.
func (s *Store) Rewrite(ctx context.Context, owner string, txns []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(owner)
	if _, err := os.Stat(path); os.IsNotExist(err) && len(txns) == 0 {
		// Clearing a store that was never created stays a no-op; the file
		// appears on first successful write only.
		return nil
	}

	var rows [][]string
	if s.shared {
		raw, readable := s.readRaw(ctx, owner)
		if readable {
			for _, row := range raw {
				if !ownerMatches(row.owner, owner) {
					rows = append(rows, append(row.fields, row.owner))
				}
			}
		}
	}
	for _, t := range txns {
		rows = append(rows, s.record(owner, t))
	}
	return s.writeFile(path, rows)
}

func (s *Store) writeFile(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(s.header()); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write records: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace record store: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
