package search

import (
	"context"
	"time"

	"github.com/basil-labs/basil/internal/domain"
	domcol "github.com/basil-labs/basil/internal/domain/collection"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
)

// Repository provides a consistent view of one collection's records.
// Live reports whether the collection still exists after a scan.
type Repository interface {
	Snapshot(ctx context.Context, collectionID string) (domcol.Collection, []domvec.Record, error)
	Live(ctx context.Context, collectionID string) bool
}

// Embedder vectorizes text queries.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// QueryRecorder accumulates query statistics for usage reporting.
type QueryRecorder interface {
	RecordQuery(elapsed time.Duration)
}

// Observer receives one event per search attempt.
type Observer interface {
	ObserveSearch(metric, status string, elapsed time.Duration)
}
