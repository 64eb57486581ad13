package rpcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFallsBackToCodeString(t *testing.T) {
	err := New(MethodNotFound, "", "redis_9.get")
	assert.Equal(t, "Method not found", err.Error())
	assert.Equal(t, "redis_9.get", err.Data)
}

func TestAsErrorPreservesRPCError(t *testing.T) {
	original := New(InvalidParams, "must specify key", nil)
	assert.Same(t, original, AsError(original))
}

func TestAsErrorWrapsArbitraryError(t *testing.T) {
	wrapped := AsError(errors.New("boom"))
	assert.Equal(t, Generic, wrapped.Code)
	assert.Equal(t, "boom", wrapped.Message)
}
