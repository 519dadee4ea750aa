package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/domain"
	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/search/filter"
	"github.com/basil-labs/basil/internal/domain/search/request"
	"github.com/basil-labs/basil/internal/domain/search/result"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
	"github.com/basil-labs/basil/internal/logger"
)

// DefaultChunkSize is the number of records scored between cancellation checks.
const DefaultChunkSize = 1024

// Observer status labels.
const (
	StatusOK        = "ok"
	StatusNotFound  = "not_found"
	StatusInvalid   = "invalid"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

// Service runs brute-force similarity search over collection snapshots.
type Service struct {
	repo      Repository
	embed     Embedder
	recorder  QueryRecorder
	observer  Observer
	chunkSize int
}

// New creates a search service. embed may be nil; text queries then fail with
// domain.ErrEmbeddingNotConfigured.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed, chunkSize: DefaultChunkSize}
}

// WithRecorder feeds completed query latencies into usage reporting.
func (s *Service) WithRecorder(r QueryRecorder) *Service {
	s.recorder = r
	return s
}

// WithObserver reports every search outcome, e.g. to Prometheus.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// WithChunkSize sets how many records are scored between context checks.
func (s *Service) WithChunkSize(n int) *Service {
	if n > 0 {
		s.chunkSize = n
	}
	return s
}

// Search ranks the collection's records against the request.
// Records are filtered by metadata, scored with the collection metric,
// stably sorted by descending score and truncated to topK.
func (s *Service) Search(ctx context.Context, collectionID string, req *request.Request) (result.Response, error) {
	col, records, err := s.repo.Snapshot(ctx, collectionID)
	if err != nil {
		s.observe(col, StatusNotFound, 0)
		return result.Response{}, fmt.Errorf("get collection: %w", err)
	}

	if req.IsText() {
		emb, err := s.embedText(ctx, req.Text())
		if err != nil {
			s.observe(col, statusFor(err), 0)
			return result.Response{}, err
		}
		embedded := req.WithVector(emb)
		req = &embedded
	}
	query := req.Vector()

	if len(query) != col.Dimension() {
		s.observe(col, StatusInvalid, 0)
		return result.Response{}, fmt.Errorf("%w: query has %d values, collection %q expects %d",
			domain.ErrDimensionMismatch, len(query), col.ID(), col.Dimension())
	}

	start := time.Now()
	results, err := s.rank(ctx, col, records, query, req.Filters(), req.TopK(), "")
	elapsed := time.Since(start)
	if err == nil {
		err = s.ensureLive(ctx, col)
	}
	if err != nil {
		s.observe(col, statusFor(err), elapsed)
		return result.Response{}, err
	}

	s.complete(ctx, col, elapsed, len(records), len(results))
	return result.NewResponse(results, elapsed), nil
}

// Similar ranks the collection against one of its own vectors, excluding that vector.
func (s *Service) Similar(
	ctx context.Context, collectionID string, req *request.SimilarRequest,
) (result.Response, error) {
	col, records, err := s.repo.Snapshot(ctx, collectionID)
	if err != nil {
		s.observe(col, StatusNotFound, 0)
		return result.Response{}, fmt.Errorf("get collection: %w", err)
	}

	idx := slices.IndexFunc(records, func(r domvec.Record) bool { return r.ID() == req.VectorID() })
	if idx < 0 {
		s.observe(col, StatusNotFound, 0)
		return result.Response{}, fmt.Errorf("vector %q: %w", req.VectorID(), domain.ErrVectorNotFound)
	}

	start := time.Now()
	results, err := s.rank(ctx, col, records, records[idx].Values(), req.Filters(), req.TopK(), req.VectorID())
	elapsed := time.Since(start)
	if err == nil {
		err = s.ensureLive(ctx, col)
	}
	if err != nil {
		s.observe(col, statusFor(err), elapsed)
		return result.Response{}, err
	}

	s.complete(ctx, col, elapsed, len(records), len(results))
	return result.NewResponse(results, elapsed), nil
}

// ensureLive fails a finished scan whose collection was deleted meanwhile.
func (s *Service) ensureLive(ctx context.Context, col domcol.Collection) error {
	if s.repo.Live(ctx, col.ID()) {
		return nil
	}
	return fmt.Errorf("collection %q deleted during search: %w", col.ID(), domain.ErrNotFound)
}

func (s *Service) embedText(ctx context.Context, text string) ([]float32, error) {
	if s.embed == nil {
		return nil, fmt.Errorf("text query: %w", domain.ErrEmbeddingNotConfigured)
	}
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	domain.QueryUsageFrom(ctx).AddTokens(emb.TotalTokens)
	return emb.Embedding, nil
}

type candidate struct {
	rec   domvec.Record
	score float64
}

// rank scores matching records in chunks so cancellation can abort long scans.
func (s *Service) rank(
	ctx context.Context, col domcol.Collection, records []domvec.Record,
	query []float32, filters filter.Expression, topK int, exclude string,
) ([]result.Result, error) {
	score := col.Metric().Scorer()
	cands := make([]candidate, 0, min(len(records), 4*topK))

	for start := 0; start < len(records); start += s.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search aborted after %d of %d records: %w", start, len(records), err)
		}
		end := min(start+s.chunkSize, len(records))
		for _, r := range records[start:end] {
			if exclude != "" && r.ID() == exclude {
				continue
			}
			if !filters.Matches(r.Metadata()) {
				continue
			}
			cands = append(cands, candidate{rec: r, score: score(query, r.Values())})
		}
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(cands) > topK {
		cands = cands[:topK]
	}

	results := make([]result.Result, len(cands))
	for i, c := range cands {
		results[i] = result.New(c.rec.ID(), c.score, c.rec.Metadata())
	}
	return results, nil
}

func (s *Service) complete(ctx context.Context, col domcol.Collection, elapsed time.Duration, scanned, returned int) {
	if s.recorder != nil {
		s.recorder.RecordQuery(elapsed)
	}
	s.observe(col, StatusOK, elapsed)
	logger.FromContext(ctx).Debug("Search completed",
		zap.String("collection_id", col.ID()),
		zap.String("metric", col.Metric().String()),
		zap.Int("scanned", scanned),
		zap.Int("returned", returned),
		zap.Duration("elapsed", elapsed),
	)
}

func (s *Service) observe(col domcol.Collection, status string, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	m := col.Metric().String()
	if m == "" {
		m = "unknown"
	}
	s.observer.ObserveSearch(m, status, elapsed)
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrVectorNotFound):
		return StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrDimensionMismatch),
		errors.Is(err, domain.ErrEmbeddingNotConfigured):
		return StatusInvalid
	default:
		return StatusError
	}
}
