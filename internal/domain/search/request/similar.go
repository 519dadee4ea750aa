package request

import (
	"fmt"

	"github.com/basil-labs/basil/internal/domain/search/filter"
)

// SimilarRequest is a validated "find similar" query anchored on a stored vector.
type SimilarRequest struct {
	vectorID string
	topK     int
	filters  filter.Expression
}

// NewSimilar validates a similar query. topK follows the same policy as New.
func NewSimilar(vectorID string, topK *int, filters filter.Expression, limits Limits) (SimilarRequest, error) {
	if vectorID == "" {
		return SimilarRequest{}, fmt.Errorf("vector id is required")
	}
	limits = limits.withDefaults()
	k := limits.DefaultTopK
	if topK != nil {
		if *topK <= 0 {
			return SimilarRequest{}, fmt.Errorf("topK must be a positive integer, got %d", *topK)
		}
		k = *topK
	}
	if k > limits.MaxTopK {
		k = limits.MaxTopK
	}
	return SimilarRequest{vectorID: vectorID, topK: k, filters: filters}, nil
}

// VectorID returns the anchor vector id; the anchor is excluded from results.
func (r *SimilarRequest) VectorID() string { return r.vectorID }

// TopK returns the maximum number of results.
func (r *SimilarRequest) TopK() int { return r.topK }

// Filters returns the metadata filter.
func (r *SimilarRequest) Filters() filter.Expression { return r.filters }
