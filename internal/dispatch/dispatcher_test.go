//go:build !plan9

package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	reg := poolreg.New([]poolreg.Spec{
		{ID: 0, Name: "pool0", Service: true, Addr: s.Addr()},
		{ID: 1, Name: "pool1", Addr: s.Addr(), DB: 1},
	})
	return New(reg), s
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestSingleSetThenGet(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp := d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"k1", "v1"},
	}))
	require.Nil(t, resp.Error)
	assert.Equal(t, true, resp.Result)

	resp = d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "pool0.get", "params": []any{"k1"},
	}))
	require.Nil(t, resp.Error)
	assert.Equal(t, "djE=", resp.Result) // base64("v1")
}

func TestSingleGetUtf8Encoding(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"k1", "v1"},
	}))

	resp := d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "pool0.get",
		"params": map[string]any{"key": "k1", "encoding": "utf8"},
	}))
	require.Nil(t, resp.Error)
	assert.Equal(t, "v1", resp.Result)
}

func TestSingleGetBadEncodingIsInvalidParams(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Single(context.Background(), raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.get",
		"params": map[string]any{"key": "k1", "encoding": "bogus"},
	}))
	require.NotNil(t, resp.Error)
	assert.EqualValues(t, -32602, resp.Error.Code)
}

func TestSingleGetNamedParamsOmittingEncodingDefaultsToBase64(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"k1", "v1"},
	}))

	resp := d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "pool0.get",
		"params": map[string]any{"key": "k1"},
	}))
	require.Nil(t, resp.Error)
	assert.Equal(t, "djE=", resp.Result) // base64("v1"), same as the positional-params default
}

func TestSingleKeysNamedParamsEmptyDefaultsToWildcard(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"k1", "v1"},
	}))

	resp := d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "pool0.keys",
		"params": map[string]any{},
	}))
	require.Nil(t, resp.Error)
	assert.Equal(t, []string{"k1"}, resp.Result)
}

func TestSingleScanNamedParamsPartialDefaultsMatchAndCount(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"k1", "v1"},
	}))

	resp := d.Single(ctx, raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "pool0.scan",
		"params": map[string]any{"cursor": 0},
	}))
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"k1"}, result["keys"])
}

func TestSingleUnknownPool(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Single(context.Background(), raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "nope.get", "params": []any{"k1"},
	}))
	require.NotNil(t, resp.Error)
	assert.EqualValues(t, -32601, resp.Error.Code)
}

func TestSingleUnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Single(context.Background(), raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0.frobnicate", "params": []any{"k1"},
	}))
	require.NotNil(t, resp.Error)
	assert.EqualValues(t, -32601, resp.Error.Code)
	assert.Equal(t, "pool0.frobnicate", resp.Error.Data)
}

func TestSingleShortMethodPathIsInvalidParams(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Single(context.Background(), raw(t, map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "pool0",
	}))
	require.NotNil(t, resp.Error)
	assert.EqualValues(t, -32602, resp.Error.Code)
}

func TestSingleInvalidEnvelope(t *testing.T) {
	d, _ := newTestDispatcher(t)
	resp := d.Single(context.Background(), raw(t, map[string]any{
		"jsonrpc": "1.0", "id": 1, "method": "pool0.get", "params": []any{"k1"},
	}))
	require.NotNil(t, resp.Error)
	assert.EqualValues(t, -32600, resp.Error.Code)
	assert.EqualValues(t, 1, resp.ID)
}
