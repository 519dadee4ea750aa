package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/basil-labs/basil/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.do(ctx, s.b().Get().Key(key).Build()).AsBytes()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.write(ctx, db.OpSet, s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build())
}

// SetWithTTL stores a value that expires after ttl. A non-positive ttl stores without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Set(ctx, key, value)
	}
	return s.write(ctx, db.OpSet, s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build())
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	return s.write(ctx, db.OpDel, s.b().Del().Key(key).Build())
}
