package binder

import (
	"fmt"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcmsg"
)

// Bind turns wire params into the (args, kwargs) pair c.Handler expects,
// dispatching to the positional or named algorithm per params.Kind.
func (c Command) Bind(params rpcmsg.Params) ([]any, map[string]any, *rpcerr.Error) {
	if params.Kind == rpcmsg.ParamsNamed {
		return c.bindNamed(params.Named)
	}
	return c.bindPositional(params.Positional)
}

func (c Command) bindPositional(values []any) ([]any, map[string]any, *rpcerr.Error) {
	args := make([]any, 0, len(values))
	kwargs := map[string]any{}
	filled := map[string]bool{}
	idx := 0

	for _, p := range c.Params {
		switch p.Kind {
		case PositionalOnly, PositionalOrKeyword:
			if idx < len(values) {
				args = append(args, values[idx])
				idx++
				filled[p.Name] = true
			} else if p.HasDefault {
				args = append(args, p.Default)
				filled[p.Name] = true
			}
		case VarPositional:
			if idx < len(values) {
				args = append(args, values[idx:]...)
				idx = len(values)
			}
			filled[p.Name] = true
		case KeywordOnly:
			// Cannot be supplied from a flat positional list.
			if p.HasDefault {
				kwargs[p.Name] = p.Default
				filled[p.Name] = true
			}
		case VarKeyword:
			filled[p.Name] = true
		}
	}

	if idx < len(values) {
		return nil, nil, rpcerr.New(rpcerr.InvalidParams, "too many positional arguments", nil)
	}
	if err := c.checkArity(filled); err != nil {
		return nil, nil, err
	}
	return args, kwargs, nil
}

func (c Command) bindNamed(named map[string]any) ([]any, map[string]any, *rpcerr.Error) {
	args := make([]any, 0, len(c.Params))
	kwargs := map[string]any{}
	consumed := map[string]bool{}
	filled := map[string]bool{}

	for _, p := range c.Params {
		value, present := named[p.Name]
		switch p.Kind {
		case PositionalOnly:
			if !present {
				return nil, nil, rpcerr.Newf(rpcerr.InvalidParams, nil, "must specify `%s`", p.Name)
			}
			args = append(args, value)
			consumed[p.Name] = true
			filled[p.Name] = true
		case PositionalOrKeyword:
			if present {
				args = append(args, value)
				consumed[p.Name] = true
				filled[p.Name] = true
			} else if p.HasDefault {
				args = append(args, p.Default)
				filled[p.Name] = true
			}
		case VarPositional:
			if present {
				list, ok := value.([]any)
				if !ok {
					return nil, nil, rpcerr.Newf(rpcerr.InvalidParams, nil, "`%s` must be a list", p.Name)
				}
				args = append(args, list...)
				consumed[p.Name] = true
				filled[p.Name] = true
			}
		case KeywordOnly:
			if present {
				kwargs[p.Name] = value
				consumed[p.Name] = true
				filled[p.Name] = true
			} else if p.HasDefault {
				kwargs[p.Name] = p.Default
				filled[p.Name] = true
			}
		case VarKeyword:
			if present {
				m, ok := value.(map[string]any)
				if !ok {
					return nil, nil, rpcerr.Newf(rpcerr.InvalidParams, nil, "`%s` must be a mapping", p.Name)
				}
				for k, v := range m {
					kwargs[k] = v
				}
				consumed[p.Name] = true
				filled[p.Name] = true
			}
		}
	}

	// Remaining keys become additional keyword arguments — wire clients
	// have no other way to pass **kwargs-by-name.
	for k, v := range named {
		if !consumed[k] {
			kwargs[k] = v
		}
	}

	if err := c.checkArity(filled); err != nil {
		return nil, nil, err
	}
	return args, kwargs, nil
}

// checkArity reports the first required parameter that ended up unfilled
// (declared defaults have already been applied by bindPositional or
// bindNamed, so a parameter with a default never counts as missing) — the
// Go analogue of the TypeError a
// Python Signature.bind(...).apply_defaults() raises for a missing
// required argument.
func (c Command) checkArity(filled map[string]bool) *rpcerr.Error {
	for _, p := range c.Params {
		if filled[p.Name] {
			continue
		}
		if p.HasDefault {
			continue
		}
		if p.Kind == VarPositional || p.Kind == VarKeyword {
			continue
		}
		return rpcerr.New(rpcerr.InvalidParams, fmt.Sprintf("missing required argument: %q", p.Name), nil)
	}
	return nil
}
