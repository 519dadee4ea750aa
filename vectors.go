package basil

import (
	"context"
	"errors"
	"fmt"

	"github.com/basil-labs/basil/internal/domain"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
)

// VectorService manages the vectors of one collection.
type VectorService struct {
	c            *Client
	collectionID string
}

// Insert validates the whole batch and stores it atomically.
// Returns the number of vectors inserted; nothing is stored on error.
func (s *VectorService) Insert(ctx context.Context, vectors []VectorInput) (_ int, err error) {
	defer s.c.obs.track("vector.insert")(&err)

	inputs := make([]vectoruc.Input, len(vectors))
	for i, v := range vectors {
		inputs[i] = vectoruc.Input{ID: v.ID, Values: v.Values, Metadata: v.Metadata}
	}

	n, err := s.c.vecSvc.Insert(s.c.ctx(ctx), s.collectionID, inputs)
	if err != nil {
		return 0, fmt.Errorf("insert vectors: %w", err)
	}
	return n, nil
}

// Get retrieves a vector by id. A missing vector or collection yields (nil, nil).
func (s *VectorService) Get(ctx context.Context, id string) (_ *Vector, err error) {
	defer s.c.obs.track("vector.get")(&err)

	rec, err := s.c.vecSvc.Get(s.c.ctx(ctx), s.collectionID, id)
	if errors.Is(err, domain.ErrVectorNotFound) || errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vector: %w", err)
	}
	out := fromInternalVector(rec)
	return &out, nil
}

// List returns up to limit vectors after cursor in insertion order.
// An empty cursor starts at the beginning; limit <= 0 uses the default page size.
func (s *VectorService) List(ctx context.Context, cursor string, limit int) (_ VectorPage, err error) {
	defer s.c.obs.track("vector.list")(&err)

	recs, next, err := s.c.vecSvc.List(s.c.ctx(ctx), s.collectionID, cursor, limit)
	if err != nil {
		return VectorPage{}, fmt.Errorf("list vectors: %w", err)
	}
	out := make([]Vector, len(recs))
	for i, r := range recs {
		out[i] = fromInternalVector(r)
	}
	return VectorPage{Vectors: out, NextCursor: next, HasMore: next != ""}, nil
}

// Delete removes a vector. A missing vector is a no-op; an unknown
// collection fails with ErrNotFound.
func (s *VectorService) Delete(ctx context.Context, id string) (err error) {
	defer s.c.obs.track("vector.delete")(&err)

	if err = s.c.vecSvc.Delete(s.c.ctx(ctx), s.collectionID, id); err != nil {
		return fmt.Errorf("delete vector: %w", err)
	}
	return nil
}

// Search starts a similarity query over the collection.
func (s *VectorService) Search() *SearchBuilder {
	return &SearchBuilder{c: s.c, collectionID: s.collectionID}
}
