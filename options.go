package basil

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	embedder     Embedder
	maxBatchSize int
	defaultTopK  int
	maxTopK      int
	seedData     bool

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithEmbedder sets the text embedding provider used by text queries.
// Without it, Search().Text(...) fails with ErrEmbeddingNotConfigured.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithMaxBatchSize sets the maximum number of vectors per Insert call.
// Default: 1000.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithSearchLimits sets the topK used when a query sets none and the
// ceiling larger requests are clamped to. Defaults: 10 and 1000.
func WithSearchLimits(defaultTopK, maxTopK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = defaultTopK
		c.maxTopK = maxTopK
	})
}

// WithSeedData creates the demo collections on startup.
func WithSeedData() Option {
	return optionFunc(func(c *clientConfig) {
		c.seedData = true
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
