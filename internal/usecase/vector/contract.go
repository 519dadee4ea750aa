package vector

import (
	"context"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
)

// Repository defines the storage contract for vectors.
type Repository interface {
	Insert(ctx context.Context, collectionID string, records []domvec.Record) (int, error)
	GetVector(ctx context.Context, collectionID, vectorID string) (domvec.Record, error)
	DeleteVector(ctx context.Context, collectionID, vectorID string) (bool, error)
	ListVectors(ctx context.Context, collectionID, cursor string, limit int) ([]domvec.Record, string, error)
}

// CollectionReader reads collections for existence and dimension checks.
type CollectionReader interface {
	Get(ctx context.Context, id string) (domcol.Collection, error)
}

// Counter counts inserted or deleted vectors.
type Counter interface {
	Add(v float64)
}
