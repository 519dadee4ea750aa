package usage

import (
	"context"
	"fmt"

	domusage "github.com/basil-labs/basil/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	inv InventoryReader
	rec *Recorder
}

// New creates a Service. rec can be nil; query and embedding counters then stay zero.
func New(inv InventoryReader, rec *Recorder) *Service {
	if rec == nil {
		rec = NewRecorder()
	}
	return &Service{inv: inv, rec: rec}
}

// Recorder returns the recorder the report reads from.
func (s *Service) Recorder() *Recorder { return s.rec }

// GetUsage builds a report over live collections and queries recorded so far.
func (s *Service) GetUsage(ctx context.Context) (domusage.Report, error) {
	inv, err := s.inv.Stats(ctx)
	if err != nil {
		return domusage.Report{}, fmt.Errorf("collect inventory: %w", err)
	}
	queries, avg := s.rec.Queries()
	return domusage.NewReport(
		inv.Collections, inv.Vectors, queries, inv.StorageBytes, avg, s.rec.Embedding(),
	), nil
}
