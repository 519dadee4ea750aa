package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/config"
	"github.com/basil-labs/basil/internal/db"
	dbRedis "github.com/basil-labs/basil/internal/db/redis"
	"github.com/basil-labs/basil/internal/domain"
	"github.com/basil-labs/basil/internal/domain/search/request"
	"github.com/basil-labs/basil/internal/fixture"
	logpkg "github.com/basil-labs/basil/internal/logger"
	"github.com/basil-labs/basil/internal/metrics"
	"github.com/basil-labs/basil/internal/repository/embcache"
	"github.com/basil-labs/basil/internal/repository/memstore"
	"github.com/basil-labs/basil/internal/repository/snapshot"
	chiTransport "github.com/basil-labs/basil/internal/transport/chi"
	openaiEmb "github.com/basil-labs/basil/internal/transport/openai"
	collectionuc "github.com/basil-labs/basil/internal/usecase/collection"
	embeddinguc "github.com/basil-labs/basil/internal/usecase/embedding"
	healthuc "github.com/basil-labs/basil/internal/usecase/health"
	searchuc "github.com/basil-labs/basil/internal/usecase/search"
	usageuc "github.com/basil-labs/basil/internal/usecase/usage"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
	"github.com/basil-labs/basil/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Println(version.String())
		return
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting basil API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Strings("storage_addrs", cfg.Storage.Addrs),
	)

	metrics.RegisterStoreMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	// Optional KV backend for snapshots and the embedding cache.
	var store db.Store
	if cfg.Storage.Persistent() {
		store = connectStore(ctx, cfg.Storage, logger)
		defer store.Close()
	}

	mem := memstore.New()

	var snapRepo *snapshot.Repo
	if store != nil {
		snapRepo, err = snapshot.New(store, cfg.Storage.SnapshotKey, metrics.SnapshotTotal, logger)
		if err != nil {
			logger.Fatal("Failed to create snapshot repository", zap.Error(err))
		}
		defer snapRepo.Close()

		n, err := snapRepo.Load(ctx, mem)
		if err != nil {
			logger.Fatal("Failed to load snapshot", zap.Error(err))
		}
		metrics.Collections.Set(float64(n))
		logger.Info("Snapshot loaded", zap.Int("collections", n))
	}

	recorder := usageuc.NewRecorder()

	// Pass a nil interface (not a typed nil pointer) when embedding is off,
	// so text queries fail with ErrEmbeddingNotConfigured.
	var queryEmbedder domain.Embedder
	if cfg.Embedding.Enabled() {
		queryEmbedder = buildEmbedder(cfg.Embedding, store, recorder, logger)
		logger.Info("Embedder created",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	}

	// Create use case services
	collSvc := collectionuc.New(mem).WithGauge(metrics.Collections)
	vecSvc := vectoruc.New(mem, mem).
		WithMaxBatchSize(cfg.Search.MaxBatchSize).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize).
		WithCounters(metrics.VectorsInsertedTotal, metrics.VectorsDeletedTotal)
	searchSvc := searchuc.New(mem, queryEmbedder).
		WithRecorder(recorder).
		WithObserver(metrics.SearchObserver{})
	usageSvc := usageuc.New(mem, recorder)
	healthSvc := healthuc.New(storagePinger(store), embeddingChecker(queryEmbedder))

	if cfg.Fixtures.SeedDemo {
		if cols, _ := collSvc.List(ctx); len(cols) == 0 {
			if _, err := fixture.Seed(ctx, collSvc, vecSvc); err != nil {
				logger.Fatal("Failed to seed demo data", zap.Error(err))
			}
		}
	}

	server := chiTransport.NewServer(collSvc, vecSvc, searchSvc, usageSvc, healthSvc, logger).
		WithSearchLimits(request.Limits{
			DefaultTopK: cfg.Search.DefaultTopK,
			MaxTopK:     cfg.Search.MaxTopK,
		})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Background snapshots; stopped after the HTTP server drains.
	saverCtx, stopSaver := context.WithCancel(ctx)
	var saverWG sync.WaitGroup
	if snapRepo != nil {
		saver := snapshot.NewSaver(snapRepo, mem, time.Duration(cfg.Storage.SnapshotIntervalSec)*time.Second, logger)
		saverWG.Add(1)
		go func() {
			defer saverWG.Done()
			saver.Run(saverCtx)
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	stopSaver()
	saverWG.Wait()

	logger.Info("Server stopped gracefully")
}

// connectStore opens the Redis or Valkey backend and waits until it answers.
func connectStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
		Standalone: cfg.Driver == config.DriverValkey,
	})
	if err != nil {
		logger.Fatal("Failed to create storage client", zap.Error(err))
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeoutSec)*time.Second); err != nil {
		store.Close()
		logger.Fatal("Storage not ready", zap.Error(err))
	}
	logger.Info("Connected to storage", zap.String("driver", cfg.Driver))
	return store
}

// buildEmbedder chains OpenAI, cache, usage accounting and the optional query prefix.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	store db.Store,
	recorder embeddinguc.UsageRecorder,
	logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, cfg.Model,
			time.Duration(cfg.CacheTTLSec)*time.Second, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, recorder, logger)

	// Outermost, so cached vectors are keyed on the prefixed text.
	if cfg.QueryInstruction != "" {
		return domain.NewPrefixedEmbedder(embedder, cfg.QueryInstruction)
	}
	return embedder
}

func storagePinger(store db.Store) healthuc.StoragePinger {
	if store == nil {
		return nil
	}
	return store
}

func embeddingChecker(e domain.Embedder) healthuc.EmbeddingChecker {
	if hc, ok := e.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}
