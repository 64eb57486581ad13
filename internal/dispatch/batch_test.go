//go:build !plan9

package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchPreservesPoolGroupingAndOrder(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp, rpcErr := d.Batch(ctx, raw(t, []any{
		map[string]any{"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"a", "1"}},
		map[string]any{"jsonrpc": "2.0", "id": 2, "method": "pool1.set", "params": []any{"b", "2"}},
		map[string]any{"jsonrpc": "2.0", "id": 3, "method": "pool0.set", "params": []any{"c", "3"}},
	}))
	require.Nil(t, rpcErr)
	require.Len(t, resp, 3)

	// pool0's two requests keep their relative order and are reported
	// before pool1's single request (first-seen group order).
	ids := []any{resp[0].ID, resp[1].ID, resp[2].ID}
	assert.EqualValues(t, []any{float64(1), float64(3), float64(2)}, ids)
	for _, r := range resp {
		assert.Nil(t, r.Error)
	}
}

func TestBatchPipelinePartialFailureIsolated(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp, rpcErr := d.Batch(ctx, raw(t, []any{
		map[string]any{"jsonrpc": "2.0", "id": 1, "method": "pool0.pipeline"},
		map[string]any{"jsonrpc": "2.0", "id": 2, "method": "pool0.set", "params": []any{"k1", "v1"}},
		map[string]any{"jsonrpc": "2.0", "id": 3, "method": "pool0.lrange", "params": []any{"k1", 0, -1}},
	}))
	require.Nil(t, rpcErr)
	require.Len(t, resp, 2)

	assert.Nil(t, resp[0].Error)
	require.NotNil(t, resp[1].Error)
	assert.EqualValues(t, -32000, resp[1].Error.Code)
}

func TestBatchMultiExecWithConstructionErrorIsRejected(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp, rpcErr := d.Batch(ctx, raw(t, []any{
		map[string]any{"jsonrpc": "2.0", "id": 1, "method": "pool0.multi_exec"},
		map[string]any{"jsonrpc": "1.0", "id": 2, "method": "pool0.set", "params": []any{"k1", "v1"}},
	}))
	require.Nil(t, rpcErr)
	require.Len(t, resp, 2)
	for _, r := range resp {
		require.NotNil(t, r.Error)
		assert.EqualValues(t, -32602, r.Error.Code)
	}
}

func TestBatchUnknownPoolProducesMethodNotFoundPerRequest(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp, rpcErr := d.Batch(ctx, raw(t, []any{
		map[string]any{"jsonrpc": "2.0", "id": 1, "method": "nope.get", "params": []any{"k1"}},
		map[string]any{"jsonrpc": "2.0", "id": 2, "method": "nope.set", "params": []any{"k1", "v1"}},
	}))
	require.Nil(t, rpcErr)
	require.Len(t, resp, 2)
	for _, r := range resp {
		require.NotNil(t, r.Error)
		assert.EqualValues(t, -32601, r.Error.Code)
	}
}

func TestBatchBytesAreBase64Encoded(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	resp, rpcErr := d.Batch(ctx, raw(t, []any{
		map[string]any{"jsonrpc": "2.0", "id": 1, "method": "pool0.set", "params": []any{"k1", "v1"}},
		map[string]any{"jsonrpc": "2.0", "id": 2, "method": "pool0.get", "params": []any{"k1"}},
	}))
	require.Nil(t, rpcErr)
	require.Len(t, resp, 2)
	assert.Equal(t, "djE=", resp[1].Result)
}

func TestBatchTopLevelMustBeNonEmptyList(t *testing.T) {
	d, _ := newTestDispatcher(t)
	_, rpcErr := d.Batch(context.Background(), raw(t, map[string]any{"not": "a list"}))
	require.NotNil(t, rpcErr)
	assert.EqualValues(t, -32600, rpcErr.Code)
}
