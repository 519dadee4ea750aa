// Package embedding accounts for query embedding usage.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
)

// UsageRecorder receives per-query token usage. Zero tokens marks a cache hit.
type UsageRecorder interface {
	RecordEmbedding(tokens int)
}

// InstrumentedEmbedder records token usage for successful embeddings and logs
// every call. Provider metrics live in transport/openai.
type InstrumentedEmbedder struct {
	next  domain.Embedder
	usage UsageRecorder
	log   *zap.Logger
}

// NewInstrumentedEmbedder wraps next. usage may be nil.
func NewInstrumentedEmbedder(
	next domain.Embedder, provider, model string,
	usage UsageRecorder, log *zap.Logger,
) *InstrumentedEmbedder {
	if log == nil {
		log = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		next:  next,
		usage: usage,
		log:   log.With(zap.String("provider", provider), zap.String("model", model)),
	}
}

func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	res, err := p.next.Embed(ctx, text)
	took := zap.Duration("duration", time.Since(start))

	if err != nil {
		p.log.Error("Embedding request failed", took, zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if p.usage != nil {
		p.usage.RecordEmbedding(res.TotalTokens)
	}
	if ce := p.log.Check(zap.DebugLevel, "Embedding request completed"); ce != nil {
		ce.Write(took,
			zap.Int("dimensions", len(res.Embedding)),
			zap.Int("prompt_tokens", res.PromptTokens),
			zap.Int("total_tokens", res.TotalTokens),
			zap.Bool("cached", res.TotalTokens == 0),
		)
	}
	return res, nil
}

func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	return domain.ProbeEmbedder(ctx, p.next)
}
