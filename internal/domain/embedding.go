package domain

import (
	"context"
	"fmt"
)

// KeyPrefix namespaces every key basil writes into the KV backend.
const KeyPrefix = "basil:"

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can verify their provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult is what every layer of the embedder chain returns.
// TotalTokens is zero when no provider call was made.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ProbeEmbedder runs e's health check if it has one.
func ProbeEmbedder(ctx context.Context, e Embedder) error {
	hc, ok := e.(HealthChecker)
	if !ok {
		return nil
	}
	return hc.HealthCheck(ctx) //nolint:wrapcheck // callers add context
}

// PrefixedEmbedder prepends a task prefix ("query: ", "Represent this sentence...")
// to every text, as instruction-tuned models expect.
type PrefixedEmbedder struct {
	next   Embedder
	prefix string
}

// NewPrefixedEmbedder wraps next with prefix.
func NewPrefixedEmbedder(next Embedder, prefix string) *PrefixedEmbedder {
	return &PrefixedEmbedder{next: next, prefix: prefix}
}

func (e *PrefixedEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := e.next.Embed(ctx, e.prefix+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("prefixed embed: %w", err)
	}
	return res, nil
}

func (e *PrefixedEmbedder) HealthCheck(ctx context.Context) error {
	return ProbeEmbedder(ctx, e.next)
}
