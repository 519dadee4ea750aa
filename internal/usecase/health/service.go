// Package health aggregates component probes into a single report.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/logger"
)

type Status string

const (
	Healthy  Status = "ok"
	Degraded Status = "degraded"
)

type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

const (
	CheckStorage   = "storage"
	CheckEmbedding = "embedding"
)

// probeTimeout bounds each probe so one slow dependency cannot stall the report.
const probeTimeout = 3 * time.Second

type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name string
	run  func(ctx context.Context) error
}

// Service runs the configured probes. Storage is always reported: with no
// backend vectors are memory-only and the check passes trivially.
// Embedding is reported only when a provider is configured.
type Service struct {
	probes []probe
}

func New(storage StoragePinger, embedding EmbeddingChecker) *Service {
	s := &Service{}
	if storage != nil {
		s.probes = append(s.probes, probe{CheckStorage, storage.Ping})
	} else {
		s.probes = append(s.probes, probe{CheckStorage, func(context.Context) error { return nil }})
	}
	if embedding != nil {
		s.probes = append(s.probes, probe{CheckEmbedding, embedding.HealthCheck})
	}
	return s
}

// Check runs all probes concurrently.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)
	results := make([]CheckResult, len(s.probes))

	var wg sync.WaitGroup
	for i, p := range s.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()
			if err := p.run(pctx); err != nil {
				log.Warn("Health probe failed", zap.String("check", p.name), zap.Error(err))
				results[i] = CheckError
				return
			}
			results[i] = CheckOK
		}()
	}
	wg.Wait()

	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.probes))}
	for i, p := range s.probes {
		r.Checks[p.name] = results[i]
		if results[i] == CheckError {
			r.Status = Degraded
		}
	}
	return r
}
