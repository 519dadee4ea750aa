package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
	"github.com/basil-labs/basil/internal/logger"
)

// IDPrefix starts every generated vector id.
const IDPrefix = "vec_"

// DefaultMaxBatchSize caps the records accepted by one Insert call.
const DefaultMaxBatchSize = 1000

// Input is a caller-supplied record before validation. An empty ID is generated.
type Input struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// Service handles vector insert, lookup, listing and deletion.
type Service struct {
	repo            Repository
	colls           CollectionReader
	newID           func() string
	maxBatchSize    int
	defaultPageSize int
	maxPageSize     int
	inserted        Counter
	deleted         Counter
}

// New creates a vector service.
func New(repo Repository, colls CollectionReader) *Service {
	return &Service{
		repo:            repo,
		colls:           colls,
		newID:           func() string { return IDPrefix + uuid.NewString() },
		maxBatchSize:    DefaultMaxBatchSize,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithIDGenerator overrides id generation.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

// WithMaxBatchSize configures the insert batch limit.
func (s *Service) WithMaxBatchSize(n int) *Service {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithCounters records inserted and deleted vector counts. Either may be nil.
func (s *Service) WithCounters(inserted, deleted Counter) *Service {
	s.inserted = inserted
	s.deleted = deleted
	return s
}

// Insert validates the whole batch, assigns missing ids and appends all records
// in one step. Returns the number inserted. Nothing is stored when any record fails.
func (s *Service) Insert(ctx context.Context, collectionID string, inputs []Input) (int, error) {
	if len(inputs) > s.maxBatchSize {
		return 0, fmt.Errorf("%w: batch of %d exceeds max %d", domain.ErrInvalidArgument, len(inputs), s.maxBatchSize)
	}

	col, err := s.colls.Get(ctx, collectionID)
	if err != nil {
		return 0, fmt.Errorf("get collection: %w", err)
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	taken := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if in.ID != "" {
			taken[in.ID] = struct{}{}
		}
	}

	records := make([]domvec.Record, 0, len(inputs))
	for i, in := range inputs {
		rec, err := domvec.New(in.ID, in.Values, in.Metadata)
		if err != nil {
			return 0, fmt.Errorf("validate vector %d: %w: %w", i, domain.ErrInvalidArgument, err)
		}
		if rec.Dimension() != col.Dimension() {
			return 0, fmt.Errorf("validate vector %d: %w: %w: expected %d values, got %d",
				i, domain.ErrInvalidArgument, domain.ErrDimensionMismatch, col.Dimension(), rec.Dimension())
		}
		if rec.ID() == "" {
			id, err := s.uniqueID(taken)
			if err != nil {
				return 0, err
			}
			rec = rec.WithID(id)
		}
		records = append(records, rec)
	}

	n, err := s.repo.Insert(ctx, collectionID, records)
	if err != nil {
		return 0, fmt.Errorf("insert vectors: %w", err)
	}

	if s.inserted != nil {
		s.inserted.Add(float64(n))
	}
	logger.FromContext(ctx).Debug("Vectors inserted",
		zap.String("collection_id", collectionID),
		zap.Int("count", n),
	)
	return n, nil
}

const maxIDAttempts = 16

// uniqueID generates an id not present in taken and reserves it.
func (s *Service) uniqueID(taken map[string]struct{}) (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if _, dup := taken[id]; !dup {
			taken[id] = struct{}{}
			return id, nil
		}
	}
	return "", fmt.Errorf("generate vector id: %d collisions in a row", maxIDAttempts)
}

// Get retrieves a vector by collection and id.
func (s *Service) Get(ctx context.Context, collectionID, vectorID string) (domvec.Record, error) {
	rec, err := s.repo.GetVector(ctx, collectionID, vectorID)
	if err != nil {
		return domvec.Record{}, fmt.Errorf("get vector: %w", err)
	}
	return rec, nil
}

// List returns a page of vectors in insertion order and the cursor for the next page.
func (s *Service) List(
	ctx context.Context, collectionID, cursor string, limit int,
) ([]domvec.Record, string, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	recs, next, err := s.repo.ListVectors(ctx, collectionID, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list vectors: %w", err)
	}
	return recs, next, nil
}

// Delete removes a vector. A missing vector is a no-op; an unknown collection is not.
func (s *Service) Delete(ctx context.Context, collectionID, vectorID string) error {
	deleted, err := s.repo.DeleteVector(ctx, collectionID, vectorID)
	if err != nil {
		return fmt.Errorf("delete vector: %w", err)
	}
	if deleted && s.deleted != nil {
		s.deleted.Add(1)
	}
	return nil
}
