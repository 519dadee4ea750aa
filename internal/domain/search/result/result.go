package result

import (
	"time"

	"github.com/basil-labs/basil/internal/domain/vector"
)

// Result is a single search hit. Metadata is shared with the stored record and must not be modified.
type Result struct {
	id       string
	score    float64
	metadata vector.Metadata
}

// New creates a search result.
func New(id string, score float64, metadata vector.Metadata) Result {
	return Result{id: id, score: score, metadata: metadata}
}

// ID returns the vector identifier.
func (r *Result) ID() string { return r.id }

// Score returns the similarity score (higher is closer).
func (r *Result) Score() float64 { return r.score }

// Metadata returns the source record metadata.
func (r *Result) Metadata() vector.Metadata { return r.metadata }

// Response is the ranked outcome of one search.
type Response struct {
	results []Result
	elapsed time.Duration
}

// NewResponse creates a search response. elapsed covers scoring, filtering, sorting and truncation.
func NewResponse(results []Result, elapsed time.Duration) Response {
	if results == nil {
		results = []Result{}
	}
	return Response{results: results, elapsed: elapsed}
}

// Results returns hits ordered by descending score.
func (r *Response) Results() []Result { return r.results }

// Elapsed returns the ranking wall-clock time.
func (r *Response) Elapsed() time.Duration { return r.elapsed }

// Total returns the number of results.
func (r *Response) Total() int { return len(r.results) }
