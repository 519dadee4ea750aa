// Package snapshot persists the in-memory store to a key-value backend as
// zstd-compressed JSON and restores it at startup.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/basil-labs/basil/internal/db"
	"github.com/basil-labs/basil/internal/domain"
	"github.com/basil-labs/basil/internal/repository/memstore"
)

// DefaultKey is where snapshots live unless configured otherwise.
const DefaultKey = domain.KeyPrefix + "snapshot"

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Source is the state being persisted.
type Source interface {
	Export() ([]memstore.Dump, uint64)
	Revision() uint64
}

// Target receives a loaded snapshot.
type Target interface {
	Restore(dumps []memstore.Dump) error
}

// Repo reads and writes snapshots under a single key.
type Repo struct {
	store   store
	key     string
	enc     *zstd.Encoder
	dec     *zstd.Decoder
	total   *prometheus.CounterVec
	logger  *zap.Logger
	nowFunc func() time.Time
}

// New creates a snapshot repository. total is a counter vec with label "status", may be nil.
func New(s store, key string, total *prometheus.CounterVec, logger *zap.Logger) (*Repo, error) {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Repo{
		store:   s,
		key:     key,
		enc:     enc,
		dec:     dec,
		total:   total,
		logger:  logger,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases decoder resources.
func (r *Repo) Close() {
	r.dec.Close()
}

// Save writes the current state of src and returns the revision it captured.
// An empty store removes the key instead of writing an empty snapshot.
func (r *Repo) Save(ctx context.Context, src Source) (uint64, error) {
	dumps, rev := src.Export()
	if len(dumps) == 0 {
		return r.clear(ctx, rev)
	}
	data, err := r.encode(dumps, rev)
	if err != nil {
		r.inc("failed")
		return 0, err
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		r.inc("failed")
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	r.inc("saved")
	r.logger.Debug("Snapshot saved",
		zap.String("key", r.key),
		zap.Int("collections", len(dumps)),
		zap.Int("bytes", len(data)),
		zap.Uint64("revision", rev),
	)
	return rev, nil
}

func (r *Repo) clear(ctx context.Context, rev uint64) (uint64, error) {
	if err := r.store.Del(ctx, r.key); err != nil {
		r.inc("failed")
		return 0, fmt.Errorf("clear snapshot: %w", err)
	}
	r.inc("cleared")
	r.logger.Debug("Snapshot cleared", zap.String("key", r.key), zap.Uint64("revision", rev))
	return rev, nil
}

// Load restores the stored snapshot into dst. A missing key leaves dst untouched
// and reports zero collections.
func (r *Repo) Load(ctx context.Context, dst Target) (int, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		r.inc("failed")
		return 0, fmt.Errorf("read snapshot: %w", err)
	}
	dumps, err := r.decode(data)
	if err != nil {
		r.inc("failed")
		return 0, err
	}
	if err := dst.Restore(dumps); err != nil {
		r.inc("failed")
		return 0, fmt.Errorf("restore snapshot: %w", err)
	}
	r.inc("loaded")
	return len(dumps), nil
}

func (r *Repo) encode(dumps []memstore.Dump, rev uint64) ([]byte, error) {
	raw, err := json.Marshal(toDTO(dumps, rev, r.nowFunc()))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return r.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func (r *Repo) decode(data []byte) ([]memstore.Dump, error) {
	raw, err := r.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var f fileDTO
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", f.Version)
	}
	return fromDTO(f), nil
}

func (r *Repo) inc(status string) {
	if r.total != nil {
		r.total.WithLabelValues(status).Inc()
	}
}
