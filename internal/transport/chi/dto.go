package chi

import (
	"time"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/search/result"
	domusage "github.com/basil-labs/basil/internal/domain/usage"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
)

// --- Requests ---

type createCollectionRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric,omitempty"`
}

type vectorInput struct {
	ID       string         `json:"id,omitempty"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type insertVectorsRequest struct {
	Vectors []vectorInput `json:"vectors"`
}

type searchRequest struct {
	Vector []float32      `json:"vector,omitempty"`
	Text   string         `json:"text,omitempty"`
	TopK   *int           `json:"topK,omitempty"`
	Filter map[string]any `json:"filter,omitempty"`
}

type similarRequest struct {
	TopK   *int           `json:"topK,omitempty"`
	Filter map[string]any `json:"filter,omitempty"`
}

// --- Responses ---

type collectionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Dimension   int       `json:"dimension"`
	Metric      string    `json:"metric"`
	VectorCount int       `json:"vectorCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type collectionListResponse struct {
	Items []collectionResponse `json:"items"`
	Total int                  `json:"total"`
}

type vectorResponse struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type vectorListResponse struct {
	Items      []vectorResponse `json:"items"`
	HasMore    bool             `json:"hasMore"`
	NextCursor *string          `json:"nextCursor,omitempty"`
}

type insertVectorsResponse struct {
	Inserted int `json:"inserted"`
}

type searchResultItem struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type searchResponse struct {
	Results       []searchResultItem `json:"results"`
	ElapsedTimeMs float64            `json:"elapsedTimeMs"`
	Took          int64              `json:"took"`
	Total         int                `json:"total"`
}

type embeddingUsageResponse struct {
	Requests      int64   `json:"requests"`
	Tokens        int64   `json:"tokens"`
	CacheHits     int64   `json:"cacheHits"`
	CacheHitRatio float64 `json:"cacheHitRatio"`
}

type usageResponse struct {
	TotalCollections int                    `json:"totalCollections"`
	TotalVectors     int64                  `json:"totalVectors"`
	TotalQueries     int64                  `json:"totalQueries"`
	StorageBytes     int64                  `json:"storageBytes"`
	StorageUsed      string                 `json:"storageUsed"`
	AvgQueryTimeMs   float64                `json:"avgQueryTimeMs"`
	Embedding        embeddingUsageResponse `json:"embedding"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Converters ---

func collectionToDTO(c domcol.Collection) collectionResponse {
	return collectionResponse{
		ID:          c.ID(),
		Name:        c.Name(),
		Dimension:   c.Dimension(),
		Metric:      c.Metric().String(),
		VectorCount: c.VectorCount(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func vectorToDTO(r domvec.Record) vectorResponse {
	return vectorResponse{
		ID:       r.ID(),
		Vector:   r.Values(),
		Metadata: r.Metadata(),
	}
}

func inputsFromDTO(in []vectorInput) []vectoruc.Input {
	out := make([]vectoruc.Input, len(in))
	for i, v := range in {
		out[i] = vectoruc.Input{ID: v.ID, Values: v.Vector, Metadata: v.Metadata}
	}
	return out
}

func searchResponseToDTO(resp *result.Response) searchResponse {
	results := resp.Results()
	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultItem{
			ID:       results[i].ID(),
			Score:    results[i].Score(),
			Metadata: results[i].Metadata(),
		}
	}
	return searchResponse{
		Results:       items,
		ElapsedTimeMs: float64(resp.Elapsed()) / float64(time.Millisecond),
		Took:          resp.Elapsed().Milliseconds(),
		Total:         resp.Total(),
	}
}

func usageToDTO(r *domusage.Report) usageResponse {
	emb := r.Embedding()
	return usageResponse{
		TotalCollections: r.TotalCollections(),
		TotalVectors:     r.TotalVectors(),
		TotalQueries:     r.TotalQueries(),
		StorageBytes:     r.StorageBytes(),
		StorageUsed:      r.StorageUsed(),
		AvgQueryTimeMs:   r.AvgQueryTimeMs(),
		Embedding: embeddingUsageResponse{
			Requests:      emb.EmbeddingRequests(),
			Tokens:        emb.Tokens(),
			CacheHits:     emb.CacheHits(),
			CacheHitRatio: emb.CacheHitRatio(),
		},
	}
}
