package memstore

import (
	"fmt"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/vector"
)

// Dump is a point-in-time copy of one collection.
type Dump struct {
	Collection domcol.Collection
	Records    []vector.Record
}

// Export returns every live collection with its records in creation order,
// together with the revision the export reflects.
func (s *Store) Export() ([]Dump, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rev := s.revision.Load()
	dumps := make([]Dump, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		e.mu.RLock()
		if !e.dropped {
			dumps = append(dumps, Dump{
				Collection: e.view(),
				Records:    e.records[:len(e.records):len(e.records)],
			})
		}
		e.mu.RUnlock()
	}
	return dumps, rev
}

// Restore replaces the store contents with dumps. Record ids must be unique per collection.
func (s *Store) Restore(dumps []Dump) error {
	entries := make(map[string]*entry, len(dumps))
	order := make([]string, 0, len(dumps))
	for _, d := range dumps {
		id := d.Collection.ID()
		if _, dup := entries[id]; dup {
			return fmt.Errorf("restore: duplicate collection %q", id)
		}
		e := &entry{
			col:       d.Collection,
			records:   make([]vector.Record, len(d.Records)),
			index:     make(map[string]int, len(d.Records)),
			updatedAt: d.Collection.UpdatedAt(),
		}
		copy(e.records, d.Records)
		for i, r := range d.Records {
			if _, dup := e.index[r.ID()]; dup {
				return fmt.Errorf("restore: collection %q: duplicate vector %q", id, r.ID())
			}
			e.index[r.ID()] = i
			e.bytes += r.SizeBytes()
		}
		entries[id] = e
		order = append(order, id)
	}

	s.mu.Lock()
	old := s.entries
	s.entries = entries
	s.order = order
	s.mu.Unlock()

	for _, e := range old {
		e.mu.Lock()
		e.dropped = true
		e.records = nil
		e.index = nil
		e.mu.Unlock()
	}
	s.bump()
	return nil
}
