// Package openai embeds query text through any OpenAI-compatible endpoint
// (OpenAI, Nebius, Ollama).
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
	"github.com/basil-labs/basil/internal/metrics"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int // 0 accepts whatever the model returns
	User       string
	Provider   string
	Timeout    time.Duration
	Logger     *zap.Logger
}

type Embedder struct {
	client *openai.Client
	req    openai.EmbeddingRequest
	dims   int
	probe  metrics.EmbeddingProbe
	log    *zap.Logger
}

func NewEmbedder(cfg *Config) *Embedder {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Embedder{
		client: openai.NewClientWithConfig(cc),
		req: openai.EmbeddingRequest{
			Model:          openai.EmbeddingModel(cfg.Model),
			EncodingFormat: openai.EmbeddingEncodingFormatFloat,
			User:           cfg.User,
			Dimensions:     cfg.Dimensions,
		},
		dims:  cfg.Dimensions,
		probe: metrics.NewEmbeddingProbe(cfg.Provider, cfg.Model),
		log:   log.With(zap.String("provider", cfg.Provider)),
	}
}

func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := e.req
	req.Input = []string{text}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		e.probe.Failure(classifyError(err))
		e.log.Warn("Embedding API call failed", zap.Duration("duration", elapsed), zap.Error(err))
		return domain.EmbeddingResult{}, providerError(err)
	}

	vec, kind, err := e.vector(resp)
	if err != nil {
		e.probe.Failure(kind)
		return domain.EmbeddingResult{}, err
	}

	e.probe.Success(elapsed, resp.Usage.PromptTokens, resp.Usage.TotalTokens)
	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

func (e *Embedder) vector(resp openai.EmbeddingResponse) ([]float32, string, error) {
	if len(resp.Data) == 0 {
		return nil, kindEmpty, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}
	vec := resp.Data[0].Embedding
	if e.dims > 0 && len(vec) != e.dims {
		return nil, kindDimensions, fmt.Errorf("provider returned %d dimensions, configured %d: %w",
			len(vec), e.dims, domain.ErrEmbeddingProviderError)
	}
	return vec, "", nil
}

// HealthCheck lists models, which costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
