package usage

import (
	"sync/atomic"
	"time"

	"github.com/basil-labs/basil/internal/domain/usage/metrics"
)

// Recorder accumulates query and embedding counters since process start.
// Safe for concurrent use.
type Recorder struct {
	queries           atomic.Int64
	queryNanos        atomic.Int64
	embeddingRequests atomic.Int64
	tokens            atomic.Int64
	cacheHits         atomic.Int64
}

// NewRecorder creates a zeroed recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordQuery counts one completed search and its ranking time.
func (r *Recorder) RecordQuery(d time.Duration) {
	r.queries.Add(1)
	r.queryNanos.Add(int64(d))
}

// RecordEmbedding counts one embedded query. Zero tokens means the cache served it.
func (r *Recorder) RecordEmbedding(tokens int) {
	r.embeddingRequests.Add(1)
	if tokens <= 0 {
		r.cacheHits.Add(1)
		return
	}
	r.tokens.Add(int64(tokens))
}

// Queries returns the completed query count and the mean ranking time.
func (r *Recorder) Queries() (int64, time.Duration) {
	n := r.queries.Load()
	if n == 0 {
		return 0, 0
	}
	return n, time.Duration(r.queryNanos.Load() / n)
}

// Embedding returns embedding counters.
func (r *Recorder) Embedding() metrics.Metrics {
	return metrics.New(r.embeddingRequests.Load(), r.tokens.Load(), r.cacheHits.Load())
}
