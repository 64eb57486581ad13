package binder

import (
	"context"
	"testing"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// f(key, *get_patterns, by=None, **kwargs)
func testCommand() Command {
	noop := func(ctx context.Context, args []any, kwargs map[string]any) (any, error) { return nil, nil }
	return Command{
		Name: "f",
		Params: []Param{
			{Name: "key", Kind: PositionalOrKeyword},
			{Name: "get_patterns", Kind: VarPositional},
			{Name: "by", Kind: KeywordOnly, HasDefault: true, Default: nil},
			{Name: "kwargs", Kind: VarKeyword},
		},
		Handler: noop,
	}
}

func TestBindNamedRespectsVariadicKinds(t *testing.T) {
	cmd := testCommand()
	params := rpcmsg.Params{
		Kind: rpcmsg.ParamsNamed,
		Named: map[string]any{
			"key":          "lol",
			"get_patterns": []any{1, 2, 3},
			"by":           "qwe",
			"additional_kw": 2,
			"kwargs":       map[string]any{"trash": 1},
		},
	}

	args, kwargs, rpcErr := cmd.Bind(params)
	require.Nil(t, rpcErr)
	assert.Equal(t, []any{"lol", 1, 2, 3}, args)
	assert.Equal(t, map[string]any{"by": "qwe", "additional_kw": 2, "trash": 1}, kwargs)
}

func TestBindNamedErrors(t *testing.T) {
	cmd := testCommand()

	_, _, rpcErr := cmd.Bind(rpcmsg.Params{Kind: rpcmsg.ParamsNamed, Named: map[string]any{
		"key": "lol", "get_patterns": 1,
	}})
	require.NotNil(t, rpcErr)
	assert.EqualValues(t, -32602, rpcErr.Code)

	_, _, rpcErr = cmd.Bind(rpcmsg.Params{Kind: rpcmsg.ParamsNamed, Named: map[string]any{}})
	require.NotNil(t, rpcErr)
	assert.EqualValues(t, -32602, rpcErr.Code)

	_, _, rpcErr = cmd.Bind(rpcmsg.Params{Kind: rpcmsg.ParamsNamed, Named: map[string]any{
		"key": 1, "kwargs": "qwe",
	}})
	require.NotNil(t, rpcErr)
	assert.EqualValues(t, -32602, rpcErr.Code)
}

func TestBindPositionalOverUnderSupply(t *testing.T) {
	simple := Command{
		Params: []Param{
			{Name: "key", Kind: PositionalOrKeyword},
			{Name: "value", Kind: PositionalOrKeyword},
		},
	}

	_, _, rpcErr := simple.Bind(rpcmsg.Params{Kind: rpcmsg.ParamsPositional, Positional: []any{"k"}})
	require.NotNil(t, rpcErr)

	_, _, rpcErr = simple.Bind(rpcmsg.Params{Kind: rpcmsg.ParamsPositional, Positional: []any{"k", "v", "extra"}})
	require.NotNil(t, rpcErr)

	args, _, rpcErr := simple.Bind(rpcmsg.Params{Kind: rpcmsg.ParamsPositional, Positional: []any{"k", "v"}})
	require.Nil(t, rpcErr)
	assert.Equal(t, []any{"k", "v"}, args)
}
