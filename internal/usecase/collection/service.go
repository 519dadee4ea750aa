package collection

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/metric"
	"github.com/basil-labs/basil/internal/logger"
)

// IDPrefix starts every generated collection id.
const IDPrefix = "col_"

// Service handles collection CRUD operations.
type Service struct {
	repo  Repository
	newID func() string
	gauge Gauge
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: func() string { return IDPrefix + uuid.NewString() },
	}
}

// WithIDGenerator overrides id generation (deterministic ids in tests and fixtures).
func (s *Service) WithIDGenerator(gen func() string) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

// WithGauge reports the live collection count after every create and delete.
func (s *Service) WithGauge(g Gauge) *Service {
	s.gauge = g
	return s
}

// Create validates and stores a new collection. An empty metric means cosine.
func (s *Service) Create(ctx context.Context, name string, dimension int, metricName string) (domcol.Collection, error) {
	m, err := metric.Parse(metricName)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("validate collection: %w: %w", domain.ErrInvalidArgument, err)
	}
	col, err := domcol.New(s.newID(), name, dimension, m)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("validate collection: %w: %w", domain.ErrInvalidArgument, err)
	}

	if err := s.repo.Create(ctx, col); err != nil {
		return domcol.Collection{}, fmt.Errorf("create collection: %w", err)
	}

	logger.FromContext(ctx).Info("Collection created",
		zap.String("collection_id", col.ID()),
		zap.String("name", col.Name()),
		zap.Int("dimension", col.Dimension()),
		zap.String("metric", col.Metric().String()),
	)
	s.refreshGauge(ctx)
	return col, nil
}

// Get retrieves a collection by id.
func (s *Service) Get(ctx context.Context, id string) (domcol.Collection, error) {
	col, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// List returns all collections in creation order.
func (s *Service) List(ctx context.Context) ([]domcol.Collection, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// Delete removes a collection and its vectors. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if deleted {
		logger.FromContext(ctx).Info("Collection deleted", zap.String("collection_id", id))
		s.refreshGauge(ctx)
	}
	return nil
}

func (s *Service) refreshGauge(ctx context.Context) {
	if s.gauge == nil {
		return
	}
	cols, err := s.repo.List(ctx)
	if err != nil {
		return
	}
	s.gauge.Set(float64(len(cols)))
}
