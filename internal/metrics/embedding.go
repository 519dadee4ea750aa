package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding provider metrics. Labels provider and model identify the upstream.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Embedding API calls by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Latency of successful embedding API calls",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "tokens_total",
			Help:      "Tokens billed by the embedding provider",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "errors_total",
			Help:      "Failed embedding API calls by cause",
		},
		[]string{"provider", "model", "error_type"},
	)

	// EmbeddingCacheTotal has one label, result: hit or miss.
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "cache_total",
			Help:      "Query embedding cache lookups",
		},
		[]string{"result"},
	)

	embeddingMetrics = group(
		EmbeddingRequestsTotal, EmbeddingRequestDuration, EmbeddingTokensTotal,
		EmbeddingErrorsTotal, EmbeddingCacheTotal,
	)
)

// RegisterEmbeddingMetrics registers the embedding collectors. Safe to call repeatedly.
func RegisterEmbeddingMetrics() { embeddingMetrics.register() }

// EmbeddingProbe records calls to one provider and model.
type EmbeddingProbe struct {
	provider string
	model    string
}

// NewEmbeddingProbe binds the provider and model labels.
func NewEmbeddingProbe(provider, model string) EmbeddingProbe {
	return EmbeddingProbe{provider: provider, model: model}
}

// Success records a completed call and the tokens it consumed.
func (p EmbeddingProbe) Success(elapsed time.Duration, promptTokens, totalTokens int) {
	EmbeddingRequestsTotal.WithLabelValues(p.provider, p.model, "success").Inc()
	EmbeddingRequestDuration.WithLabelValues(p.provider, p.model).Observe(elapsed.Seconds())
	if totalTokens > 0 {
		EmbeddingTokensTotal.WithLabelValues(p.provider, p.model, "prompt").Add(float64(promptTokens))
		EmbeddingTokensTotal.WithLabelValues(p.provider, p.model, "total").Add(float64(totalTokens))
	}
}

// Failure records a failed call under errorType.
func (p EmbeddingProbe) Failure(errorType string) {
	EmbeddingRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
	EmbeddingErrorsTotal.WithLabelValues(p.provider, p.model, errorType).Inc()
}
