package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const flushTimeout = 10 * time.Second

// Saver periodically persists the source when its revision moved.
type Saver struct {
	repo     *Repo
	src      Source
	interval time.Duration
	last     uint64
	logger   *zap.Logger
}

// NewSaver creates a background saver. The current revision counts as persisted,
// so call it after Load.
func NewSaver(repo *Repo, src Source, interval time.Duration, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{repo: repo, src: src, interval: interval, last: src.Revision(), logger: logger}
}

// Run blocks until ctx is done, then flushes once more with a fresh deadline.
func (s *Saver) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			s.SaveIfChanged(flushCtx)
			cancel()
			return
		case <-ticker.C:
			s.SaveIfChanged(ctx)
		}
	}
}

// SaveIfChanged writes a snapshot when the revision differs from the last saved one.
// Reports whether a snapshot was written.
func (s *Saver) SaveIfChanged(ctx context.Context) bool {
	if s.src.Revision() == s.last {
		return false
	}
	rev, err := s.repo.Save(ctx, s.src)
	if err != nil {
		s.logger.Warn("Snapshot save failed", zap.Error(err))
		return false
	}
	s.last = rev
	return true
}
