package health

import "context"

// StoragePinger is the KV backend, when one is configured.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker is the query embedder chain.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
