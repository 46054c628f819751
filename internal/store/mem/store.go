// Package mem provides an in-memory reminder store for tests and ephemeral
// runs. Nothing survives a restart.
package mem

import (
	"context"
	"maps"
	"sync"

	"github.com/flemzord/remindd/internal/reminder"
)

// Store is a mutex-guarded in-memory implementation of reminder.Store.
type Store struct {
	mu      sync.Mutex
	records map[int64]reminder.Record
}

// Compile-time interface check.
var _ reminder.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[int64]reminder.Record)}
}

// Put implements reminder.Store.
func (s *Store) Put(_ context.Context, id int64, rec reminder.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec
	return nil
}

// Remove implements reminder.Store.
func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// LoadAll implements reminder.Store. It returns a copy of the current
// records.
func (s *Store) LoadAll(_ context.Context) (map[int64]reminder.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.records), nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
