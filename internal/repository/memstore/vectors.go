package memstore

import (
	"context"
	"fmt"

	"github.com/basil-labs/basil/internal/domain"
	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/vector"
)

// Insert appends records atomically. Every record must carry an id and the
// collection dimension; ids must be unique within the batch and the collection.
// Nothing is written when any record fails.
func (s *Store) Insert(_ context.Context, collectionID string, records []vector.Record) (int, error) {
	e, err := s.lookup(collectionID)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dropped {
		return 0, notFound(collectionID)
	}
	if len(records) == 0 {
		return 0, nil
	}

	dim := e.col.Dimension()
	seen := make(map[string]struct{}, len(records))
	var added int64
	for i, r := range records {
		if r.ID() == "" {
			return 0, fmt.Errorf("record %d: %w: id is required", i, domain.ErrInvalidArgument)
		}
		if r.Dimension() != dim {
			return 0, fmt.Errorf("record %q: %w: %w: expected %d values, got %d",
				r.ID(), domain.ErrInvalidArgument, domain.ErrDimensionMismatch, dim, r.Dimension())
		}
		if _, dup := seen[r.ID()]; dup {
			return 0, fmt.Errorf("record %q: %w: duplicate id in batch", r.ID(), domain.ErrAlreadyExists)
		}
		if _, exists := e.index[r.ID()]; exists {
			return 0, fmt.Errorf("record %q: %w", r.ID(), domain.ErrAlreadyExists)
		}
		seen[r.ID()] = struct{}{}
		added += r.SizeBytes()
	}

	base := len(e.records)
	e.records = append(e.records, records...)
	for i, r := range records {
		e.index[r.ID()] = base + i
	}
	e.bytes += added
	e.updatedAt = s.now()
	s.bump()
	return len(records), nil
}

// GetVector returns a single record.
func (s *Store) GetVector(_ context.Context, collectionID, vectorID string) (vector.Record, error) {
	e, err := s.lookup(collectionID)
	if err != nil {
		return vector.Record{}, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dropped {
		return vector.Record{}, notFound(collectionID)
	}
	pos, ok := e.index[vectorID]
	if !ok {
		return vector.Record{}, fmt.Errorf("vector %q: %w", vectorID, domain.ErrVectorNotFound)
	}
	return e.records[pos], nil
}

// DeleteVector removes a record. Returns false without error when the record does not exist.
func (s *Store) DeleteVector(_ context.Context, collectionID, vectorID string) (bool, error) {
	e, err := s.lookup(collectionID)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dropped {
		return false, notFound(collectionID)
	}
	pos, ok := e.index[vectorID]
	if !ok {
		return false, nil
	}

	removed := e.records[pos]
	next := make([]vector.Record, 0, len(e.records)-1)
	next = append(next, e.records[:pos]...)
	next = append(next, e.records[pos+1:]...)
	e.records = next

	delete(e.index, vectorID)
	for i := pos; i < len(next); i++ {
		e.index[next[i].ID()] = i
	}
	e.bytes -= removed.SizeBytes()
	e.updatedAt = s.now()
	s.bump()
	return true, nil
}

// ListVectors pages through records in insertion order. cursor is the id of the
// last record of the previous page; empty starts from the beginning. The returned
// cursor is empty on the last page.
func (s *Store) ListVectors(_ context.Context, collectionID, cursor string, limit int) ([]vector.Record, string, error) {
	e, err := s.lookup(collectionID)
	if err != nil {
		return nil, "", err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dropped {
		return nil, "", notFound(collectionID)
	}

	start := 0
	if cursor != "" {
		pos, ok := e.index[cursor]
		if !ok {
			return nil, "", fmt.Errorf("%w: unknown cursor %q", domain.ErrInvalidArgument, cursor)
		}
		start = pos + 1
	}
	end := min(start+limit, len(e.records))
	if start >= end {
		return []vector.Record{}, "", nil
	}

	page := make([]vector.Record, end-start)
	copy(page, e.records[start:end])

	next := ""
	if end < len(e.records) {
		next = page[len(page)-1].ID()
	}
	return page, next, nil
}

// Snapshot returns the collection and a consistent view of its records.
// The returned slice must be treated as read-only.
func (s *Store) Snapshot(_ context.Context, collectionID string) (domcol.Collection, []vector.Record, error) {
	e, err := s.lookup(collectionID)
	if err != nil {
		return domcol.Collection{}, nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dropped {
		return domcol.Collection{}, nil, notFound(collectionID)
	}
	// Capacity is capped so an append by the caller cannot reach the shared backing array.
	recs := e.records[:len(e.records):len(e.records)]
	return e.view(), recs, nil
}

// Live reports whether the collection exists and has not been dropped.
func (s *Store) Live(_ context.Context, collectionID string) bool {
	e, err := s.lookup(collectionID)
	if err != nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.dropped
}
