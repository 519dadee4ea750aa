package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

var nop = zap.NewNop()

// ContextWithLogger attaches l to ctx.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext never returns nil.
func FromContext(ctx context.Context) *zap.Logger {
	l, _ := ctx.Value(ctxKey{}).(*zap.Logger)
	if l == nil {
		return nop
	}
	return l
}

// With derives a context whose logger carries fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}
