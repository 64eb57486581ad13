// Package gwlog provides the gateway's structured logger: a thin,
// context-aware wrapper over zap (spec.md is silent on logging;
// SPEC_FULL.md §4.8 carries it as an ambient concern in the teacher's
// style, trimmed of the teacher's OTEL dual-core and sampling machinery
// since this gateway has no tracing pipeline to feed).
package gwlog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with context-aware methods that pick up
// correlation fields (request id) stashed on the context.
type Logger struct {
	zap *zap.Logger
}

// New builds a JSON-encoded Logger writing to stdout at the given
// level ("debug", "info", "warn", "error" — see LevelFromString).
func New(level string) (*Logger, error) {
	lvl, err := LevelFromString(level)
	if err != nil {
		return nil, fmt.Errorf("gwlog: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		lvl,
	)
	return &Logger{zap: zap.New(core, zap.AddCaller())}, nil
}

// NewNop returns a Logger that discards everything, for tests and
// callers that haven't wired one up yet.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Debug(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Info(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Warn(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Error(msg, append(ContextFields(ctx), fields...)...)
}

// With returns a child logger carrying the given fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Underlying returns the wrapped zap.Logger, for libraries (echo's
// middleware, cobra's error reporter) that want one directly.
func (l *Logger) Underlying() *zap.Logger {
	return l.zap
}
