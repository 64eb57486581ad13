// Package rpcmsg implements JSON-RPC 2.0 request envelopes: parsing,
// validation, and the derived views (method path, pool name) the dispatcher
// and binder need.
package rpcmsg

import (
	"encoding/json"
	"strings"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
)

const jsonRPCVersion = "2.0"

// ParamsKind discriminates how Params was supplied on the wire.
type ParamsKind int

const (
	// ParamsPositional means params was a JSON array, or absent.
	ParamsPositional ParamsKind = iota
	// ParamsNamed means params was a JSON object.
	ParamsNamed
)

// Params is the sum of the two shapes JSON-RPC params can take.
type Params struct {
	Kind       ParamsKind
	Positional []any
	Named      map[string]any
}

// Request is a single, parsed JSON-RPC 2.0 call. It is immutable once
// constructed; lenient construction (used for batch elements) may still
// populate Err instead of failing outright.
type Request struct {
	RawID   json.RawMessage
	JSONRPC string
	Method  string
	Params  Params
	Err     *rpcerr.Error
}

// ID returns the decoded id value (string, float64, bool, nil, ...) for
// echoing back in a response.
func (r *Request) ID() any {
	if len(r.RawID) == 0 {
		return nil
	}
	var v any
	_ = json.Unmarshal(r.RawID, &v)
	return v
}

// MethodPath splits Method on '.'.
func (r *Request) MethodPath() []string {
	if r.Method == "" {
		return nil
	}
	return strings.Split(r.Method, ".")
}

// MethodName is the last segment of MethodPath.
func (r *Request) MethodName() string {
	path := r.MethodPath()
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// PoolName is the first segment of MethodPath — the redis-scoped
// convention this gateway layers on top of plain JSON-RPC (spec I2).
func (r *Request) PoolName() string {
	path := r.MethodPath()
	if len(path) == 0 {
		return ""
	}
	return path[0]
}

// ParseRequest parses and strictly validates a single JSON-RPC request.
// On any validation failure it returns a nil *Request and the *rpcerr.Error.
func ParseRequest(raw json.RawMessage) (*Request, *rpcerr.Error) {
	req, rpcErr := parse(raw)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return req, nil
}

// ParseRequestLenient always returns a non-nil *Request. If validation
// fails, Err is populated on the returned request instead of failing the
// call — this is how batch elements are parsed so one malformed element
// does not abort the whole batch.
func ParseRequestLenient(raw json.RawMessage) *Request {
	req, rpcErr := parse(raw)
	if req == nil {
		// Parsing failed before we could build even a partial Request
		// (e.g. the payload wasn't a JSON object at all).
		req = &Request{}
	}
	req.Err = rpcErr
	return req
}

func parse(raw json.RawMessage) (*Request, *rpcerr.Error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, rpcerr.New(rpcerr.InvalidRequest, "Single RPC call should be a mapping", nil)
	}
	if len(fields) == 0 {
		return nil, rpcerr.New(rpcerr.InvalidRequest, "Request is empty", nil)
	}

	req := &Request{}

	if raw, ok := fields["id"]; ok {
		req.RawID = raw
	}

	if raw, ok := fields["jsonrpc"]; ok {
		_ = json.Unmarshal(raw, &req.JSONRPC)
	}

	var methodErr *rpcerr.Error
	if raw, ok := fields["method"]; ok {
		var method string
		if err := json.Unmarshal(raw, &method); err != nil {
			methodErr = rpcerr.New(rpcerr.InvalidRequest, "Method should be a string", nil)
		} else {
			req.Method = method
		}
	}

	req.Params = parseParams(fields["params"])

	if req.JSONRPC != jsonRPCVersion {
		return req, rpcerr.New(rpcerr.InvalidRequest, "Wrong jsonrpc version", nil)
	}
	if methodErr != nil {
		return req, methodErr
	}
	if req.Method == "" {
		return req, rpcerr.New(rpcerr.InvalidRequest, "No method was specified", nil)
	}

	return req, nil
}

func parseParams(raw json.RawMessage) Params {
	if len(raw) == 0 {
		return Params{Kind: ParamsPositional}
	}

	var asList []any
	if err := json.Unmarshal(raw, &asList); err == nil {
		return Params{Kind: ParamsPositional, Positional: asList}
	}

	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return Params{Kind: ParamsNamed, Named: asMap}
	}

	return Params{Kind: ParamsPositional}
}
