package basil

import (
	"context"
	"fmt"

	"github.com/basil-labs/basil/internal/domain"
)

// Embedder turns query text into a vector. Plug one in with WithEmbedder to
// enable text search.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is the vector plus the tokens the provider billed.
// Report zero TotalTokens for results served without a provider call.
type EmbeddingResult = domain.EmbeddingResult

// providerEmbedder marks every failure of a user embedder as a provider error.
type providerEmbedder struct {
	Embedder
}

func (p providerEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := p.Embedder.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("embed: %w: %w", domain.ErrEmbeddingProviderError, err)
	}
	return res, nil
}

func (p providerEmbedder) HealthCheck(ctx context.Context) error {
	if err := domain.ProbeEmbedder(ctx, p.Embedder); err != nil {
		return fmt.Errorf("embedder health: %w", err)
	}
	return nil
}
