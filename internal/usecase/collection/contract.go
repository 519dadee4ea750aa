package collection

import (
	"context"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Create(ctx context.Context, col domcol.Collection) error
	Get(ctx context.Context, id string) (domcol.Collection, error)
	List(ctx context.Context) ([]domcol.Collection, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Gauge tracks the number of live collections.
type Gauge interface {
	Set(v float64)
}
