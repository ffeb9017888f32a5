// Package inmemory holds parsed tables for the lifetime of the process.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
)

// Store is an in-memory implementation of dataset.Store. It is safe for
// concurrent use. Tables are lost on restart, which matches the session-only
// lifecycle of uploaded data: a new session starts with a new upload.
//
// There is no eviction. Datasets are small and keyed by content fingerprint,
// so the map grows only when genuinely new content is uploaded.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*dataset.Table
}

// NewStore creates an empty in-memory dataset store.
func NewStore() *Store {
	return &Store{
		tables: make(map[string]*dataset.Table),
	}
}

// Save implements the dataset.Store interface. Tables are immutable after
// load, so the pointer is stored as-is.
func (s *Store) Save(ctx context.Context, id string, table *dataset.Table) error {
	if id == "" {
		return fmt.Errorf("dataset ID is required")
	}
	if table == nil {
		return fmt.Errorf("table is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[id] = table
	return nil
}

// Get implements the dataset.Store interface.
func (s *Store) Get(ctx context.Context, id string) (*dataset.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, exists := s.tables[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", dataset.ErrNotFound, id)
	}
	return table, nil
}

// Ensure Store implements the dataset.Store interface.
var _ dataset.Store = (*Store)(nil)
