package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Total number of searches by metric and outcome",
		},
		[]string{"metric", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent filtering, scoring and sorting records",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"metric"},
	)
)

var searchMetrics = group(SearchTotal, SearchDuration)

// RegisterSearchMetrics registers the search collectors. Safe to call repeatedly.
func RegisterSearchMetrics() { searchMetrics.register() }

// SearchObserver reports search outcomes to SearchTotal and SearchDuration.
type SearchObserver struct{}

// ObserveSearch records one search. Duration is observed for successful searches only.
func (SearchObserver) ObserveSearch(metric, status string, elapsed time.Duration) {
	SearchTotal.WithLabelValues(metric, status).Inc()
	if status == "ok" {
		SearchDuration.WithLabelValues(metric).Observe(elapsed.Seconds())
	}
}
