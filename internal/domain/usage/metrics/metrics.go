package metrics

// Metrics holds embedding provider usage since process start.
type Metrics struct {
	embeddingRequests int64
	tokens            int64
	cacheHits         int64
}

// New creates a Metrics snapshot.
func New(requests, tokens, cacheHits int64) Metrics {
	return Metrics{embeddingRequests: requests, tokens: tokens, cacheHits: cacheHits}
}

// EmbeddingRequests returns the number of text queries that needed an embedding.
func (m Metrics) EmbeddingRequests() int64 { return m.embeddingRequests }

// Tokens returns the total tokens consumed by the provider.
func (m Metrics) Tokens() int64 { return m.tokens }

// CacheHits returns how many embeddings were served from the cache.
func (m Metrics) CacheHits() int64 { return m.cacheHits }

// CacheHitRatio returns cache hits over requests, 0 when there were no requests.
func (m Metrics) CacheHitRatio() float64 {
	if m.embeddingRequests == 0 {
		return 0
	}
	return float64(m.cacheHits) / float64(m.embeddingRequests)
}
