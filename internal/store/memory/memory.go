// Package memory provides an in-process Store used by tests and as the
// default development backend.
package memory

import (
	"context"
	"sync"

	"hisaab/internal/core"
)

type Store struct {
	mu     sync.Mutex
	items  map[string][]core.Transaction
	nextID map[string]int64
}

func New() *Store {
	return &Store{
		items:  make(map[string][]core.Transaction),
		nextID: make(map[string]int64),
	}
}

func (s *Store) Load(_ context.Context, owner string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items[owner]...), nil
}

func (s *Store) Append(_ context.Context, owner string, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID[owner]++
	t.ID = s.nextID[owner]
	s.items[owner] = append(s.items[owner], t)
	return t, nil
}

func (s *Store) Rewrite(_ context.Context, owner string, txns []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.ID == 0 {
			s.nextID[owner]++
			t.ID = s.nextID[owner]
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		delete(s.items, owner)
		return nil
	}
	s.items[owner] = kept
	return nil
}

func (s *Store) Close() error { return nil }
