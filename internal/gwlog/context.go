package gwlog

import (
	"context"

	"go.uber.org/zap"
)

type requestCtxKey struct{}

// WithRequestID stashes a request id on ctx for correlation across a
// single RPC call's dispatch and keyscan log lines.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, requestID)
}

// RequestIDFromContext returns the request id stashed by WithRequestID,
// or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextFields extracts the correlation fields gwlog knows about from
// ctx, for attaching to a single log entry.
func ContextFields(ctx context.Context) []zap.Field {
	if id := RequestIDFromContext(ctx); id != "" {
		return []zap.Field{zap.String("request_id", id)}
	}
	return nil
}

type loggerCtxKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// FromContext retrieves the Logger stored on ctx, falling back to a
// no-op logger if none was stashed.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
