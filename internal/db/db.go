// Package db defines the key-value backend used for snapshots and the query embedding cache.
// The vector data itself lives in memory (repository/memstore).
package db

import (
	"context"
	"time"
)

// Store is a connected backend. Implementations: db/redis (Redis and Valkey).
type Store interface {
	Pinger
	KVStore
	// WaitForReady blocks until Ping succeeds or timeout elapses.
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore holds opaque byte values. Get returns ErrKeyNotFound for missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetWithTTL expires the key after ttl; a non-positive ttl never expires.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
