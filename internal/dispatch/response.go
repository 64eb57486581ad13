package dispatch

import (
	"encoding/base64"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
)

// Response is the wire shape of one JSON-RPC 2.0 reply.
type Response struct {
	ID      any          `json:"id"`
	JSONRPC string       `json:"jsonrpc"`
	Result  any          `json:"result,omitempty"`
	Error   *errorObject `json:"error,omitempty"`
}

type errorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const jsonRPCVersion = "2.0"

func successResponse(id any, result any) Response {
	return Response{ID: id, JSONRPC: jsonRPCVersion, Result: encodeResult(result)}
}

func errorResponse(id any, rpcErr *rpcerr.Error) Response {
	return Response{
		ID:      id,
		JSONRPC: jsonRPCVersion,
		Error:   &errorObject{Code: int(rpcErr.Code), Message: rpcErr.Message, Data: rpcErr.Data},
	}
}

// encodeResult applies spec.md §4.3 step 6: a raw byte-string result is
// base64-encoded; everything else passes through untouched.
func encodeResult(result any) any {
	if b, ok := result.([]byte); ok {
		return base64.StdEncoding.EncodeToString(b)
	}
	return result
}
