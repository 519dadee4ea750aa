package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
	"github.com/basil-labs/basil/internal/repository/memstore"
	collectionuc "github.com/basil-labs/basil/internal/usecase/collection"
	healthuc "github.com/basil-labs/basil/internal/usecase/health"
	searchuc "github.com/basil-labs/basil/internal/usecase/search"
	usageuc "github.com/basil-labs/basil/internal/usecase/usage"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, m.err
}

// --- Helpers ---

func newTestServer(t *testing.T, emb searchuc.Embedder) *httptest.Server {
	t.Helper()
	store := memstore.New()
	rec := usageuc.NewRecorder()
	srv := NewServer(
		collectionuc.New(store),
		vectoruc.New(store, store),
		searchuc.New(store, emb).WithRecorder(rec),
		usageuc.New(store, rec),
		healthuc.New(nil, nil),
		zap.NewNop(),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, data []byte, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, status, data)
	}
	if got := decode[errorResponse](t, data); got.Code != code {
		t.Errorf("code = %q, want %q", got.Code, code)
	}
}

func createDocs(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, data := do(t, ts, http.MethodPost, "/api/v1/collections", `{"name":"docs","dimension":3}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d: %s", resp.StatusCode, data)
	}
	col := decode[collectionResponse](t, data)

	resp, data = do(t, ts, http.MethodPost, "/api/v1/collections/"+col.ID+"/vectors",
		`{"vectors":[{"id":"a","vector":[1,0,0],"metadata":{"category":"Electronics"}},`+
			`{"id":"b","vector":[0,1,0],"metadata":{"category":"Books"}}]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("insert: status %d: %s", resp.StatusCode, data)
	}
	if got := decode[insertVectorsResponse](t, data); got.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", got.Inserted)
	}
	return col.ID
}

// --- Tests ---

func TestCollectionLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)

	resp, data := do(t, ts, http.MethodGet, "/api/v1/collections/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	col := decode[collectionResponse](t, data)
	if col.Name != "docs" || col.Dimension != 3 || col.Metric != "cosine" || col.VectorCount != 2 {
		t.Errorf("unexpected collection: %+v", col)
	}

	resp, data = do(t, ts, http.MethodGet, "/api/v1/collections", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status %d", resp.StatusCode)
	}
	if list := decode[collectionListResponse](t, data); list.Total != 1 || list.Items[0].ID != id {
		t.Errorf("unexpected list: %+v", list)
	}

	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/collections/"+id, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/collections/"+id, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("second delete: status %d, want 204", resp.StatusCode)
	}

	resp, data = do(t, ts, http.MethodGet, "/api/v1/collections/"+id, "")
	expectError(t, resp, data, http.StatusNotFound, codeNotFound)
}

func TestCreateCollection_Validation(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"name":`, codeBadRequest},
		{"zero dimension", `{"name":"docs","dimension":0}`, codeInvalidArgument},
		{"empty name", `{"dimension":3}`, codeInvalidArgument},
		{"unknown metric", `{"name":"docs","dimension":3,"metric":"manhattan"}`, codeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, ts, http.MethodPost, "/api/v1/collections", tt.body)
			expectError(t, resp, data, http.StatusBadRequest, tt.code)
		})
	}
}

func TestSearch_DocsScenario(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)

	resp, data := do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/search", `{"vector":[1,0,0],"topK":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d: %s", resp.StatusCode, data)
	}
	got := decode[searchResponse](t, data)
	if got.Total != 1 || len(got.Results) != 1 {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got.Results[0].ID != "a" || got.Results[0].Score != 1.0 {
		t.Errorf("top = %+v, want {a 1.0}", got.Results[0])
	}
	if got.Results[0].Metadata["category"] != "Electronics" {
		t.Errorf("metadata = %v", got.Results[0].Metadata)
	}
	if got.ElapsedTimeMs < 0 {
		t.Errorf("elapsedTimeMs = %v", got.ElapsedTimeMs)
	}
}

func TestSearch_Filter(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)

	_, data := do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/search",
		`{"vector":[1,1,0],"filter":{"category":"Books"}}`)
	got := decode[searchResponse](t, data)
	if got.Total != 1 || got.Results[0].ID != "b" {
		t.Errorf("filtered results = %+v, want only b", got.Results)
	}
}

func TestSearch_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)
	path := "/api/v1/collections/" + id + "/search"

	resp, data := do(t, ts, http.MethodPost, path, `{"vector":[1,0]}`)
	expectError(t, resp, data, http.StatusBadRequest, codeDimensionMismatch)

	resp, data = do(t, ts, http.MethodPost, path, `{"vector":[1,0,0],"topK":0}`)
	expectError(t, resp, data, http.StatusBadRequest, codeInvalidArgument)

	resp, data = do(t, ts, http.MethodPost, path, `{}`)
	expectError(t, resp, data, http.StatusBadRequest, codeInvalidArgument)

	resp, data = do(t, ts, http.MethodPost, path, `{"text":"wireless headphones"}`)
	expectError(t, resp, data, http.StatusNotImplemented, codeEmbeddingNotConfigured)

	resp, data = do(t, ts, http.MethodPost, "/api/v1/collections/ghost/search", `{"vector":[1,0,0]}`)
	expectError(t, resp, data, http.StatusNotFound, codeNotFound)
}

func TestSearch_TextQuery(t *testing.T) {
	ts := newTestServer(t, &mockEmbedder{vec: []float32{0, 1, 0}, tokens: 4})
	id := createDocs(t, ts)

	resp, data := do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/search", `{"text":"novel","topK":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d: %s", resp.StatusCode, data)
	}
	if resp.Header.Get(headerEmbeddingTokens) != "4" {
		t.Errorf("%s = %q, want 4", headerEmbeddingTokens, resp.Header.Get(headerEmbeddingTokens))
	}
	if got := decode[searchResponse](t, data); got.Results[0].ID != "b" {
		t.Errorf("top = %q, want b", got.Results[0].ID)
	}
}

func TestSearch_ProviderError(t *testing.T) {
	ts := newTestServer(t, &mockEmbedder{err: domain.ErrEmbeddingProviderError})
	id := createDocs(t, ts)

	resp, data := do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/search", `{"text":"novel"}`)
	expectError(t, resp, data, http.StatusBadGateway, codeEmbeddingProviderError)
}

func TestVectors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)
	base := "/api/v1/collections/" + id + "/vectors"

	resp, data := do(t, ts, http.MethodGet, base+"/a", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get vector: status %d", resp.StatusCode)
	}
	if v := decode[vectorResponse](t, data); v.ID != "a" || len(v.Vector) != 3 {
		t.Errorf("unexpected vector: %+v", v)
	}

	resp, data = do(t, ts, http.MethodGet, base+"?limit=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list vectors: status %d", resp.StatusCode)
	}
	page := decode[vectorListResponse](t, data)
	if len(page.Items) != 1 || !page.HasMore || page.NextCursor == nil {
		t.Fatalf("unexpected first page: %+v", page)
	}
	_, data = do(t, ts, http.MethodGet, base+"?limit=1&cursor="+*page.NextCursor, "")
	page = decode[vectorListResponse](t, data)
	if len(page.Items) != 1 || page.Items[0].ID != "b" || page.HasMore {
		t.Errorf("unexpected second page: %+v", page)
	}

	resp, data = do(t, ts, http.MethodGet, base+"?limit=abc", "")
	expectError(t, resp, data, http.StatusBadRequest, codeInvalidArgument)

	resp, _ = do(t, ts, http.MethodDelete, base+"/a", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete vector: status %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodDelete, base+"/a", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("second delete: status %d, want 204", resp.StatusCode)
	}

	resp, data = do(t, ts, http.MethodGet, base+"/a", "")
	expectError(t, resp, data, http.StatusNotFound, codeVectorNotFound)

	resp, data = do(t, ts, http.MethodDelete, "/api/v1/collections/ghost/vectors/a", "")
	expectError(t, resp, data, http.StatusNotFound, codeNotFound)

	_, data = do(t, ts, http.MethodGet, "/api/v1/collections/"+id, "")
	if col := decode[collectionResponse](t, data); col.VectorCount != 1 {
		t.Errorf("vectorCount = %d, want 1", col.VectorCount)
	}
}

func TestInsertVectors_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)

	resp, data := do(t, ts, http.MethodPost, "/api/v1/collections/ghost/vectors", `{"vectors":[{"vector":[1,0,0]}]}`)
	expectError(t, resp, data, http.StatusNotFound, codeNotFound)

	resp, data = do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/vectors", `{"vectors":[{"vector":[1,0]}]}`)
	expectError(t, resp, data, http.StatusBadRequest, codeDimensionMismatch)

	resp, data = do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/vectors",
		`{"vectors":[{"vector":[1,0,0],"metadata":{"tags":["a"]}}]}`)
	expectError(t, resp, data, http.StatusBadRequest, codeInvalidArgument)
}

func TestSimilar(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)

	resp, data := do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/vectors/a/similar", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("similar: status %d: %s", resp.StatusCode, data)
	}
	got := decode[searchResponse](t, data)
	if got.Total != 1 || got.Results[0].ID != "b" {
		t.Errorf("unexpected similar results: %+v", got.Results)
	}

	resp, data = do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/vectors/ghost/similar", `{"topK":3}`)
	expectError(t, resp, data, http.StatusNotFound, codeVectorNotFound)
}

func TestUsage(t *testing.T) {
	ts := newTestServer(t, nil)
	id := createDocs(t, ts)
	do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/search", `{"vector":[1,0,0]}`)
	do(t, ts, http.MethodPost, "/api/v1/collections/"+id+"/search", `{"vector":[0,1,0]}`)

	resp, data := do(t, ts, http.MethodGet, "/api/v1/analytics/usage", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("usage: status %d", resp.StatusCode)
	}
	u := decode[usageResponse](t, data)
	if u.TotalCollections != 1 || u.TotalVectors != 2 || u.TotalQueries != 2 {
		t.Errorf("unexpected usage: %+v", u)
	}
	if u.StorageBytes == 0 || u.StorageUsed == "" {
		t.Errorf("expected storage to be reported, got %+v", u)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, data := do(t, ts, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}
	if h := decode[healthResponse](t, data); h.Status != "ok" || h.Checks["storage"] != "ok" {
		t.Errorf("unexpected health: %+v", h)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	resp, data = do(t, ts, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(data, []byte("basil_http_requests_total")) {
		t.Errorf("metrics: status %d, body missing http counter", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, data := do(t, ts, http.MethodGet, "/api/v1/nope", "")
	expectError(t, resp, data, http.StatusNotFound, codeNotFound)
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := decode[errorResponse](t, rr.Body.Bytes()); got.Code != codeInternalError {
		t.Errorf("code = %q", got.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	h := bodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var v map[string]any
		decodeBody(w, r, &v)
	}))
	rr := httptest.NewRecorder()
	body := `{"name":"` + strings.Repeat("x", 64) + `"}`
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHandleDomainError_HidesInternals(t *testing.T) {
	srv := NewServer(nil, nil, nil, nil, nil, nil)
	rr := httptest.NewRecorder()
	srv.handleDomainError(rr, io.ErrUnexpectedEOF)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := decode[errorResponse](t, rr.Body.Bytes()); got.Message != messageInternalError {
		t.Errorf("message = %q, leaked internals", got.Message)
	}
}
