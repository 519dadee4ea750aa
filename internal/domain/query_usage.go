package domain

import (
	"context"
	"sync/atomic"
)

type queryUsageKey struct{}

// QueryUsage accumulates embedding work done on behalf of one query.
// The caller attaches it before searching and reads it afterwards.
type QueryUsage struct {
	tokens atomic.Int64
	calls  atomic.Int32
}

// WithQueryUsage returns a context carrying a fresh usage collector.
func WithQueryUsage(ctx context.Context) (context.Context, *QueryUsage) {
	u := &QueryUsage{}
	return context.WithValue(ctx, queryUsageKey{}, u), u
}

// QueryUsageFrom returns the collector attached to ctx, or nil.
func QueryUsageFrom(ctx context.Context) *QueryUsage {
	u, _ := ctx.Value(queryUsageKey{}).(*QueryUsage)
	return u
}

// AddTokens counts one embedding call. Cache hits report zero tokens but still count.
// Safe on a nil receiver.
func (u *QueryUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.calls.Add(1)
	u.tokens.Add(int64(n))
}

// Tokens returns the tokens consumed so far.
func (u *QueryUsage) Tokens() int {
	if u == nil {
		return 0
	}
	return int(u.tokens.Load())
}

// Embedded reports whether any text was embedded.
func (u *QueryUsage) Embedded() bool {
	return u != nil && u.calls.Load() > 0
}
