package basil

import (
	"context"
	"errors"
	"fmt"

	"github.com/basil-labs/basil/internal/domain"
)

// CollectionOption configures collection creation.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	metric Metric
}

// WithMetric sets the similarity metric. Default: Cosine.
func WithMetric(m Metric) CollectionOption {
	return func(c *collectionConfig) {
		c.metric = m
	}
}

// CollectionService manages collections.
type CollectionService struct {
	c *Client
}

// Create creates a new collection with a generated id.
func (s *CollectionService) Create(
	ctx context.Context, name string, dimension int, opts ...CollectionOption,
) (_ Collection, err error) {
	defer s.c.obs.track("collection.create")(&err)

	cfg := &collectionConfig{}
	for _, o := range opts {
		o(cfg)
	}

	col, err := s.c.collSvc.Create(s.c.ctx(ctx), name, dimension, string(cfg.metric))
	if err != nil {
		return Collection{}, fmt.Errorf("create collection: %w", err)
	}
	return fromInternalCollection(col), nil
}

// Get retrieves collection metadata by id. A missing collection yields (nil, nil).
func (s *CollectionService) Get(ctx context.Context, id string) (_ *Collection, err error) {
	defer s.c.obs.track("collection.get")(&err)

	col, err := s.c.collSvc.Get(s.c.ctx(ctx), id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	out := fromInternalCollection(col)
	return &out, nil
}

// List returns all collections in creation order.
func (s *CollectionService) List(ctx context.Context) (_ []Collection, err error) {
	defer s.c.obs.track("collection.list")(&err)

	cols, err := s.c.collSvc.List(s.c.ctx(ctx))
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	out := make([]Collection, len(cols))
	for i, col := range cols {
		out[i] = fromInternalCollection(col)
	}
	return out, nil
}

// Delete removes a collection and all its vectors. Unknown ids are a no-op.
func (s *CollectionService) Delete(ctx context.Context, id string) (err error) {
	defer s.c.obs.track("collection.delete")(&err)

	if err = s.c.collSvc.Delete(s.c.ctx(ctx), id); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}
