package basil

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/search/request"
	"github.com/basil-labs/basil/internal/domain/search/result"
	domusage "github.com/basil-labs/basil/internal/domain/usage"
	domvec "github.com/basil-labs/basil/internal/domain/vector"
	"github.com/basil-labs/basil/internal/fixture"
	"github.com/basil-labs/basil/internal/logger"
	"github.com/basil-labs/basil/internal/repository/memstore"
	collectionuc "github.com/basil-labs/basil/internal/usecase/collection"
	embeddinguc "github.com/basil-labs/basil/internal/usecase/embedding"
	healthuc "github.com/basil-labs/basil/internal/usecase/health"
	searchuc "github.com/basil-labs/basil/internal/usecase/search"
	usageuc "github.com/basil-labs/basil/internal/usecase/usage"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
)

const seedTimeout = 30 * time.Second

// Internal interfaces, swapped in tests.
type collectionUseCase interface {
	Create(ctx context.Context, name string, dimension int, metric string) (domcol.Collection, error)
	Get(ctx context.Context, id string) (domcol.Collection, error)
	List(ctx context.Context) ([]domcol.Collection, error)
	Delete(ctx context.Context, id string) error
}

type vectorUseCase interface {
	Insert(ctx context.Context, collectionID string, inputs []vectoruc.Input) (int, error)
	Get(ctx context.Context, collectionID, vectorID string) (domvec.Record, error)
	List(ctx context.Context, collectionID, cursor string, limit int) ([]domvec.Record, string, error)
	Delete(ctx context.Context, collectionID, vectorID string) error
}

type searchUseCase interface {
	Search(ctx context.Context, collectionID string, req *request.Request) (result.Response, error)
	Similar(ctx context.Context, collectionID string, req *request.SimilarRequest) (result.Response, error)
}

type usageUseCase interface {
	GetUsage(ctx context.Context) (domusage.Report, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the basil entry point. It is safe for concurrent use.
type Client struct {
	collSvc   collectionUseCase
	vecSvc    vectorUseCase
	searchSvc searchUseCase
	usageSvc  usageUseCase
	healthSvc healthUseCase
	limits    request.Limits
	logger    *zap.Logger
	obs       *observer
}

// New creates an in-memory Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := wireClient(memstore.New(), cfg, obs)
	if cfg.seedData {
		ctx, cancel := context.WithTimeout(c.ctx(context.Background()), seedTimeout)
		defer cancel()
		if _, err := fixture.Seed(ctx, c.collSvc, c.vecSvc); err != nil {
			return nil, fmt.Errorf("basil: seed demo data: %w", err)
		}
	}
	return c, nil
}

func wireClient(store *memstore.Store, cfg *clientConfig, obs *observer) *Client {
	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}

	recorder := usageuc.NewRecorder()

	// Text queries fail with ErrEmbeddingNotConfigured when no embedder is set.
	var (
		embed   searchuc.Embedder
		checker healthuc.EmbeddingChecker
	)
	if cfg.embedder != nil {
		instrumented := embeddinguc.NewInstrumentedEmbedder(
			providerEmbedder{cfg.embedder}, "custom", "", recorder, log,
		)
		embed = instrumented
		checker = instrumented
	}

	vecSvc := vectoruc.New(store, store)
	if cfg.maxBatchSize > 0 {
		vecSvc = vecSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}

	return &Client{
		collSvc:   collectionuc.New(store),
		vecSvc:    vecSvc,
		searchSvc: searchuc.New(store, embed).WithRecorder(recorder),
		usageSvc:  usageuc.New(store, recorder),
		healthSvc: healthuc.New(nil, checker),
		limits:    request.Limits{DefaultTopK: cfg.defaultTopK, MaxTopK: cfg.maxTopK},
		logger:    cfg.logger,
		obs:       obs,
	}
}

// ctx attaches the client logger so that services log through it.
func (c *Client) ctx(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.logger)
}

// Collections returns the collection management service.
func (c *Client) Collections() *CollectionService {
	return &CollectionService{c: c}
}

// Vectors returns the vector service for a given collection id.
func (c *Client) Vectors(collectionID string) *VectorService {
	return &VectorService{c: c, collectionID: collectionID}
}

// Analytics returns the usage reporting service.
func (c *Client) Analytics() *AnalyticsService {
	return &AnalyticsService{c: c}
}

// Health reports component health. An in-memory client without an
// embedder is always healthy.
func (c *Client) Health(ctx context.Context) (_ HealthReport, err error) {
	defer c.obs.track("health")(&err)

	rep := c.healthSvc.Check(c.ctx(ctx))
	checks := make(map[string]string, len(rep.Checks))
	for name, res := range rep.Checks {
		checks[name] = string(res)
	}
	return HealthReport{Status: HealthStatus(rep.Status), Checks: checks}, nil
}
