package usage

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/basil-labs/basil/internal/domain/usage/metrics"
)

// Inventory is the registry-wide footprint over live collections.
type Inventory struct {
	Collections  int
	Vectors      int64
	StorageBytes int64
}

// Report is an aggregate view over the registry and the query log at one point in time.
type Report struct {
	totalCollections int
	totalVectors     int64
	totalQueries     int64
	storageBytes     int64
	avgQueryTime     time.Duration
	embedding        metrics.Metrics
}

// NewReport creates a usage report.
func NewReport(
	collections int, vectors, queries, storageBytes int64,
	avgQueryTime time.Duration, embedding metrics.Metrics,
) Report {
	return Report{
		totalCollections: collections,
		totalVectors:     vectors,
		totalQueries:     queries,
		storageBytes:     storageBytes,
		avgQueryTime:     avgQueryTime,
		embedding:        embedding,
	}
}

// TotalCollections returns the number of live collections.
func (r *Report) TotalCollections() int { return r.totalCollections }

// TotalVectors returns the sum of vector counts over all collections.
func (r *Report) TotalVectors() int64 { return r.totalVectors }

// TotalQueries returns the number of completed searches.
func (r *Report) TotalQueries() int64 { return r.totalQueries }

// StorageBytes returns the estimated vector and metadata footprint.
func (r *Report) StorageBytes() int64 { return r.storageBytes }

// StorageUsed returns StorageBytes in human form, e.g. "2.4 GB".
func (r *Report) StorageUsed() string {
	if r.storageBytes < 0 {
		return humanize.Bytes(0)
	}
	return humanize.Bytes(uint64(r.storageBytes))
}

// AvgQueryTime returns the mean ranking time per search.
func (r *Report) AvgQueryTime() time.Duration { return r.avgQueryTime }

// AvgQueryTimeMs returns AvgQueryTime in fractional milliseconds.
func (r *Report) AvgQueryTimeMs() float64 {
	return float64(r.avgQueryTime) / float64(time.Millisecond)
}

// Embedding returns embedding provider usage.
func (r *Report) Embedding() metrics.Metrics { return r.embedding }
