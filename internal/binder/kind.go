// Package binder resolves dotted command paths against a pool's command
// table and binds JSON-RPC params — positional list or named mapping — to
// a command's declared parameter kinds.
package binder

// Kind tags how a Param may be supplied, mirroring Python's
// inspect.Parameter.kind enumeration that the source relies on for
// reflective binding. The gateway has no runtime reflection over Redis
// commands, so each Command in a pool's table declares its Params with
// one of these kinds explicitly.
type Kind int

const (
	// PositionalOnly must be supplied; in named-params mode its name is
	// still used to find the value in the map.
	PositionalOnly Kind = iota
	// PositionalOrKeyword may be supplied positionally or (in named
	// mode) by name; if absent in named mode its declared default is
	// used, and without a default it is skipped (and then reported
	// missing by the arity check).
	PositionalOrKeyword
	// VarPositional collects a list of trailing positional values
	// (Redis commands such as DEL key [key ...]).
	VarPositional
	// KeywordOnly may only be supplied by name.
	KeywordOnly
	// VarKeyword collects a mapping of additional named values.
	VarKeyword
)

func (k Kind) String() string {
	switch k {
	case PositionalOnly:
		return "POSITIONAL_ONLY"
	case PositionalOrKeyword:
		return "POSITIONAL_OR_KEYWORD"
	case VarPositional:
		return "VAR_POSITIONAL"
	case KeywordOnly:
		return "KEYWORD_ONLY"
	case VarKeyword:
		return "VAR_KEYWORD"
	default:
		return "UNKNOWN"
	}
}

// Param describes one parameter of a Command's declared signature.
type Param struct {
	Name       string
	Kind       Kind
	HasDefault bool
	Default    any
}
