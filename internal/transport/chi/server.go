package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
	"github.com/basil-labs/basil/internal/domain/search/filter"
	"github.com/basil-labs/basil/internal/domain/search/request"
	"github.com/basil-labs/basil/internal/metrics"
	collectionuc "github.com/basil-labs/basil/internal/usecase/collection"
	healthuc "github.com/basil-labs/basil/internal/usecase/health"
	searchuc "github.com/basil-labs/basil/internal/usecase/search"
	usageuc "github.com/basil-labs/basil/internal/usecase/usage"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
)

// Server is the JSON HTTP API over the collection, vector, search and usage services.
type Server struct {
	collections   *collectionuc.Service
	vectors       *vectoruc.Service
	search        *searchuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	limits        request.Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	vectors *vectoruc.Service,
	search *searchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		collections:   collections,
		vectors:       vectors,
		search:        search,
		usage:         usage,
		health:        health,
		limits:        request.DefaultLimits(),
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithSearchLimits overrides the default and maximum topK.
func (s *Server) WithSearchLimits(l request.Limits) *Server {
	s.limits = l
	return s
}

// Handler returns the router with the full middleware stack mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(bodyLimit(maxRequestBodyBytes))

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/analytics/usage", s.GetUsage)

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", s.ListCollections)
			r.Post("/", s.CreateCollection)

			r.Route("/{collection}", func(r chi.Router) {
				r.Get("/", s.GetCollection)
				r.Delete("/", s.DeleteCollection)
				r.Post("/search", s.SearchVectors)

				r.Route("/vectors", func(r chi.Router) {
					r.Get("/", s.ListVectors)
					r.Post("/", s.InsertVectors)
					r.Get("/{vector}", s.GetVector)
					r.Delete("/{vector}", s.DeleteVector)
					r.Post("/{vector}/similar", s.SimilarVectors)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	return r
}

// CreateCollection handles POST /api/v1/collections.
func (s *Server) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	col, err := s.collections.Create(r.Context(), req.Name, req.Dimension, req.Metric)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/collections/"+col.ID())
	writeJSON(w, http.StatusCreated, collectionToDTO(col))
}

// ListCollections handles GET /api/v1/collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]collectionResponse, len(cols))
	for i, c := range cols {
		items[i] = collectionToDTO(c)
	}
	writeJSON(w, http.StatusOK, collectionListResponse{Items: items, Total: len(items)})
}

// GetCollection handles GET /api/v1/collections/{collection}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	col, err := s.collections.Get(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionToDTO(col))
}

// DeleteCollection handles DELETE /api/v1/collections/{collection}.
func (s *Server) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.collections.Delete(r.Context(), chi.URLParam(r, "collection")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InsertVectors handles POST /api/v1/collections/{collection}/vectors.
func (s *Server) InsertVectors(w http.ResponseWriter, r *http.Request) {
	var req insertVectorsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := s.vectors.Insert(r.Context(), chi.URLParam(r, "collection"), inputsFromDTO(req.Vectors))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, insertVectorsResponse{Inserted: n})
}

// ListVectors handles GET /api/v1/collections/{collection}/vectors.
func (s *Server) ListVectors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidArgument, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, next, err := s.vectors.List(r.Context(), chi.URLParam(r, "collection"), q.Get("cursor"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]vectorResponse, len(recs))
	for i, rec := range recs {
		items[i] = vectorToDTO(rec)
	}
	resp := vectorListResponse{Items: items, HasMore: next != ""}
	if next != "" {
		resp.NextCursor = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetVector handles GET /api/v1/collections/{collection}/vectors/{vector}.
func (s *Server) GetVector(w http.ResponseWriter, r *http.Request) {
	rec, err := s.vectors.Get(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "vector"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vectorToDTO(rec))
}

// DeleteVector handles DELETE /api/v1/collections/{collection}/vectors/{vector}.
func (s *Server) DeleteVector(w http.ResponseWriter, r *http.Request) {
	if err := s.vectors.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "vector")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchVectors handles POST /api/v1/collections/{collection}/search.
func (s *Server) SearchVectors(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expr, err := filter.New(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}
	searchReq, err := request.New(req.Vector, req.Text, req.TopK, expr, s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	ctx, usage := domain.WithQueryUsage(r.Context())
	resp, err := s.search.Search(ctx, chi.URLParam(r, "collection"), &searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchResponseToDTO(&resp))
}

// SimilarVectors handles POST /api/v1/collections/{collection}/vectors/{vector}/similar.
func (s *Server) SimilarVectors(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	expr, err := filter.New(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}
	simReq, err := request.NewSimilar(chi.URLParam(r, "vector"), req.TopK, expr, s.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
		return
	}

	resp, err := s.search.Similar(r.Context(), chi.URLParam(r, "collection"), &simReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponseToDTO(&resp))
}

// GetUsage handles GET /api/v1/analytics/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	report, err := s.usage.GetUsage(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageToDTO(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, messageInternalError)
}

// decodeBody decodes a JSON body and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.QueryUsage) {
	if usage.Embedded() {
		w.Header().Set(headerEmbeddingTokens, strconv.Itoa(usage.Tokens()))
	}
}
