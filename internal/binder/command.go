package binder

import (
	"context"
)

// Handler is the uniform shape every bound command call ends at, closed
// over whatever target (a live client, a pipeline, a transaction) the
// call should run against.
type Handler func(ctx context.Context, args []any, kwargs map[string]any) (any, error)

// Command is one entry of a pool's command table: the declared signature
// used for binding, plus the handler it's bound to.
type Command struct {
	Name    string
	Doc     string
	Params  []Param
	Handler Handler
}

// Describe renders the command's signature the way /inspect reports it —
// grounded in the source's SignatureSerializer.inspect_entity, minus the
// runtime type/annotation introspection Go has no equivalent of.
func (c Command) Describe() map[string]any {
	params := make(map[string]any, len(c.Params))
	for _, p := range c.Params {
		entry := map[string]any{"kind": p.Kind.String()}
		if p.HasDefault {
			entry["default"] = p.Default
		} else {
			entry["default"] = nil
		}
		params[p.Name] = entry
	}
	return map[string]any{
		"doc":        c.Doc,
		"parameters": params,
	}
}
