// Package memstore is the in-memory collection registry and vector store.
//
// The registry is guarded by one RWMutex and each collection by its own.
// Records are never modified in place: inserts append and deletes rebuild
// the slice, so a slice header read under the collection read lock is a
// consistent snapshot that later mutations cannot change.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/basil-labs/basil/internal/domain"
	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/usage"
	"github.com/basil-labs/basil/internal/domain/vector"
)

// Store holds every collection and its vectors. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	order    []string
	entries  map[string]*entry
	revision atomic.Uint64
	now      func() time.Time
}

type entry struct {
	mu        sync.RWMutex
	col       domcol.Collection
	records   []vector.Record
	index     map[string]int
	bytes     int64
	updatedAt time.Time
	dropped   bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Revision increases on every mutation. Snapshot savers compare it to skip unchanged states.
func (s *Store) Revision() uint64 { return s.revision.Load() }

func (s *Store) bump() { s.revision.Add(1) }

// Create registers a new collection. The id must be unique.
func (s *Store) Create(_ context.Context, col domcol.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[col.ID()]; ok {
		return fmt.Errorf("collection %q: %w", col.ID(), domain.ErrAlreadyExists)
	}
	s.entries[col.ID()] = &entry{
		col:       col,
		index:     make(map[string]int),
		updatedAt: col.UpdatedAt(),
	}
	s.order = append(s.order, col.ID())
	s.bump()
	return nil
}

// Get returns a collection with its live vector count.
func (s *Store) Get(_ context.Context, id string) (domcol.Collection, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domcol.Collection{}, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dropped {
		return domcol.Collection{}, notFound(id)
	}
	return e.view(), nil
}

// List returns all collections in creation order.
func (s *Store) List(_ context.Context) ([]domcol.Collection, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id])
	}
	s.mu.RUnlock()

	cols := make([]domcol.Collection, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		if !e.dropped {
			cols = append(cols, e.view())
		}
		e.mu.RUnlock()
	}
	return cols, nil
}

// Delete removes a collection and discards its vectors.
// Returns false without error when the collection does not exist.
func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	// In-flight operations holding e observe dropped and fail with not found.
	e.mu.Lock()
	e.dropped = true
	e.records = nil
	e.index = nil
	e.bytes = 0
	e.mu.Unlock()

	s.bump()
	return true, nil
}

// Stats returns collection, vector and byte totals over live collections.
func (s *Store) Stats(ctx context.Context) (usage.Inventory, error) {
	cols, err := s.List(ctx)
	if err != nil {
		return usage.Inventory{}, err
	}

	s.mu.RLock()
	entries := make([]*entry, 0, len(cols))
	for _, c := range cols {
		if e, ok := s.entries[c.ID()]; ok {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	var st usage.Inventory
	for _, e := range entries {
		e.mu.RLock()
		if !e.dropped {
			st.Collections++
			st.Vectors += int64(len(e.records))
			st.StorageBytes += e.bytes
		}
		e.mu.RUnlock()
	}
	return st, nil
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return e, nil
}

// view must be called with e.mu held.
func (e *entry) view() domcol.Collection {
	return e.col.WithStats(len(e.records), e.updatedAt)
}

func notFound(id string) error {
	return fmt.Errorf("collection %q: %w", id, domain.ErrNotFound)
}
