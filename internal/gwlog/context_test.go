package gwlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	assert.Len(t, ContextFields(ctx), 1)
}

func TestRequestIDAbsent(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Nil(t, ContextFields(context.Background()))
}

func TestFromContextFallsBackToNop(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	l := NewNop()
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
