package basil

import (
	"time"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/search/result"
	domusage "github.com/basil-labs/basil/internal/domain/usage"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
)

// Metric is the similarity function of a collection.
type Metric string

// Supported metrics. Higher scores are always closer.
const (
	Cosine    Metric = "cosine"
	Euclidean Metric = "euclidean"
	Dot       Metric = "dot"
)

// Collection is collection metadata.
type Collection struct {
	ID          string
	Name        string
	Dimension   int
	Metric      Metric
	VectorCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VectorInput is a record to insert. An empty ID is generated.
type VectorInput struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// Vector is a stored record. Metadata numbers are float64.
type Vector struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

// VectorPage is one page of List output in insertion order.
type VectorPage struct {
	Vectors    []Vector
	NextCursor string
	HasMore    bool
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// SearchResponse is the ranked outcome of a search.
type SearchResponse struct {
	Results []SearchResult
	// Took covers scoring, filtering, sorting and truncation.
	Took time.Duration
	// EmbeddingTokens is set for text queries.
	EmbeddingTokens int
}

// Total returns the number of results.
func (r SearchResponse) Total() int { return len(r.Results) }

// EmbeddingUsage summarizes embedding provider calls.
type EmbeddingUsage struct {
	Requests  int64
	Tokens    int64
	CacheHits int64
}

// Usage is an aggregate view over all collections and completed queries.
type Usage struct {
	TotalCollections int
	TotalVectors     int64
	TotalQueries     int64
	StorageBytes     int64
	StorageUsed      string
	AvgQueryTime     time.Duration
	Embedding        EmbeddingUsage
}

// HealthStatus is the aggregated health state.
type HealthStatus string

// Health states.
const (
	StatusOK       HealthStatus = "ok"
	StatusDegraded HealthStatus = "degraded"
)

// HealthReport is the outcome of Client.Health.
type HealthReport struct {
	Status HealthStatus
	Checks map[string]string
}

func fromInternalCollection(col domcol.Collection) Collection {
	return Collection{
		ID:          col.ID(),
		Name:        col.Name(),
		Dimension:   col.Dimension(),
		Metric:      Metric(col.Metric()),
		VectorCount: col.VectorCount(),
		CreatedAt:   col.CreatedAt(),
		UpdatedAt:   col.UpdatedAt(),
	}
}

func fromInternalVector(rec domvec.Record) Vector {
	values := make([]float32, len(rec.Values()))
	copy(values, rec.Values())
	return Vector{ID: rec.ID(), Values: values, Metadata: copyMetadata(rec.Metadata())}
}

func fromInternalResponse(resp result.Response, tokens int) SearchResponse {
	hits := resp.Results()
	out := make([]SearchResult, len(hits))
	for i := range hits {
		out[i] = SearchResult{
			ID:       hits[i].ID(),
			Score:    hits[i].Score(),
			Metadata: copyMetadata(hits[i].Metadata()),
		}
	}
	return SearchResponse{Results: out, Took: resp.Elapsed(), EmbeddingTokens: tokens}
}

func fromInternalUsage(r domusage.Report) Usage {
	emb := r.Embedding()
	return Usage{
		TotalCollections: r.TotalCollections(),
		TotalVectors:     r.TotalVectors(),
		TotalQueries:     r.TotalQueries(),
		StorageBytes:     r.StorageBytes(),
		StorageUsed:      r.StorageUsed(),
		AvgQueryTime:     r.AvgQueryTime(),
		Embedding: EmbeddingUsage{
			Requests:  emb.EmbeddingRequests(),
			Tokens:    emb.Tokens(),
			CacheHits: emb.CacheHits(),
		},
	}
}

// copyMetadata detaches caller-visible metadata from stored records.
func copyMetadata(md domvec.Metadata) map[string]any {
	if md == nil {
		return nil
	}
	return md.Clone()
}
