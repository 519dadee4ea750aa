package collection

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/basil-labs/basil/internal/domain/metric"
)

// MaxDimension caps the vector length a collection accepts.
const MaxDimension = 65536

const maxNameLen = 64

// Collection is a named, dimensioned bucket of vectors sharing one metric (immutable value object).
type Collection struct {
	id          string
	name        string
	dimension   int
	metric      metric.Metric
	vectorCount int
	createdAt   time.Time
	updatedAt   time.Time
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf("collection name too long (max %d characters)", maxNameLen)
	}
	return nil
}

// New validates and creates a Collection with zero vectors.
// Name: free-form, 1-64 characters. Dimension: 1..MaxDimension. Empty metric means cosine.
func New(id, name string, dimension int, m metric.Metric) (Collection, error) {
	if id == "" {
		return Collection{}, fmt.Errorf("collection id is required")
	}
	if err := validateName(name); err != nil {
		return Collection{}, err
	}
	if dimension <= 0 {
		return Collection{}, fmt.Errorf("dimension must be a positive integer, got %d", dimension)
	}
	if dimension > MaxDimension {
		return Collection{}, fmt.Errorf("dimension %d exceeds max %d", dimension, MaxDimension)
	}
	if m == "" {
		m = metric.Default
	}
	if !m.IsValid() {
		return Collection{}, fmt.Errorf("unsupported metric %q", m)
	}

	now := time.Now().UTC()
	return Collection{
		id:        id,
		name:      name,
		dimension: dimension,
		metric:    m,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Collection without validation (storage hydration).
func Reconstruct(
	id, name string, dimension int, m metric.Metric,
	vectorCount int, createdAt, updatedAt time.Time,
) Collection {
	if m == "" {
		m = metric.Default
	}
	return Collection{
		id:          id,
		name:        name,
		dimension:   dimension,
		metric:      m,
		vectorCount: vectorCount,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// WithStats returns a copy carrying the live vector count and last mutation time.
func (c Collection) WithStats(vectorCount int, updatedAt time.Time) Collection {
	c.vectorCount = vectorCount
	c.updatedAt = updatedAt
	return c
}

// ID returns the generated collection identifier.
func (c Collection) ID() string { return c.id }

// Name returns the display name.
func (c Collection) Name() string { return c.name }

// Dimension returns the required vector length.
func (c Collection) Dimension() int { return c.dimension }

// Metric returns the similarity metric.
func (c Collection) Metric() metric.Metric { return c.metric }

// VectorCount returns the number of stored vectors.
func (c Collection) VectorCount() int { return c.vectorCount }

// CreatedAt returns the creation time.
func (c Collection) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the time of the last insert or delete.
func (c Collection) UpdatedAt() time.Time { return c.updatedAt }
