package rpcmsg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestStrictValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty mapping", `{}`},
		{"wrong jsonrpc", `{"jsonrpc":"1.0","method":"redis_0.get","id":1}`},
		{"empty method", `{"jsonrpc":"2.0","method":"","id":1}`},
		{"non mapping", `[1,2,3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, rpcErr := ParseRequest(json.RawMessage(tc.body))
			require.NotNil(t, rpcErr)
			assert.EqualValues(t, -32600, rpcErr.Code)
		})
	}
}

func TestParseRequestPreservesID(t *testing.T) {
	req, rpcErr := ParseRequest(json.RawMessage(`{"jsonrpc":"2.0","method":"redis_0.get","params":["k"],"id":"abc-1"}`))
	require.Nil(t, rpcErr)
	assert.Equal(t, "abc-1", req.ID())
	assert.Equal(t, []string{"redis_0", "get"}, req.MethodPath())
	assert.Equal(t, "get", req.MethodName())
	assert.Equal(t, "redis_0", req.PoolName())
	assert.Equal(t, ParamsPositional, req.Params.Kind)
	assert.Equal(t, []any{"k"}, req.Params.Positional)
}

func TestParseRequestNamedParams(t *testing.T) {
	req, rpcErr := ParseRequest(json.RawMessage(`{"jsonrpc":"2.0","method":"redis_0.set","params":{"key":"k","value":"v"},"id":null}`))
	require.Nil(t, rpcErr)
	assert.Nil(t, req.ID())
	assert.Equal(t, ParamsNamed, req.Params.Kind)
	assert.Equal(t, "k", req.Params.Named["key"])
}

func TestParseRequestLenientNeverFails(t *testing.T) {
	req := ParseRequestLenient(json.RawMessage(`{"jsonrpc":"2.0"}`))
	require.NotNil(t, req)
	require.NotNil(t, req.Err)
	assert.EqualValues(t, -32600, req.Err.Code)
}
