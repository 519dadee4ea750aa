// Package embcache memoizes query embeddings in the key-value store so that
// repeated text queries skip the provider round trip.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/db"
	"github.com/basil-labs/basil/internal/domain"
)

// keyspace carries the codec version so a format change never decodes old entries.
var keyspace = fmt.Sprintf("%semb:v%d:", domain.KeyPrefix, codecVersion)

const (
	resultHit  = "hit"
	resultMiss = "miss"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedEmbedder wraps an embedder with a read-through cache.
type CachedEmbedder struct {
	next    domain.Embedder
	kv      kv
	model   string
	ttl     time.Duration
	lookups *prometheus.CounterVec
	log     *zap.Logger
}

// New builds a CachedEmbedder. Keys are scoped by model; ttl 0 means no expiry.
// lookups is optional and must carry a single "result" label.
func New(
	next domain.Embedder,
	store kv,
	model string,
	ttl time.Duration,
	lookups *prometheus.CounterVec,
	log *zap.Logger,
) *CachedEmbedder {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedEmbedder{next: next, kv: store, model: model, ttl: ttl, lookups: lookups, log: log}
}

// Embed serves from cache when possible. Hits report zero tokens.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec := c.lookup(ctx, key); vec != nil {
		c.count(resultHit)
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.count(resultMiss)

	res, err := c.next.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	if len(res.Embedding) > 0 {
		c.remember(ctx, key, res.Embedding)
	}
	return res, nil
}

// HealthCheck delegates to the wrapped embedder if it can be probed.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	return domain.ProbeEmbedder(ctx, c.next)
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(c.model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return keyspace + hex.EncodeToString(h.Sum(nil))
}

// lookup returns nil on any miss. Store failures degrade to a miss.
func (c *CachedEmbedder) lookup(ctx context.Context, key string) []float32 {
	raw, err := c.kv.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil
	case err != nil:
		c.log.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	vec, err := decodeVector(raw)
	if err != nil {
		c.log.Warn("Embedding cache entry dropped", zap.String("key", key), zap.Error(err))
		return nil
	}
	return vec
}

func (c *CachedEmbedder) remember(ctx context.Context, key string, vec []float32) {
	if err := c.kv.SetWithTTL(ctx, key, encodeVector(vec), c.ttl); err != nil {
		c.log.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedEmbedder) count(result string) {
	if c.lookups == nil {
		return
	}
	c.lookups.WithLabelValues(result).Inc()
}
