package rpcmsg

import (
	"encoding/json"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
)

// Batch is a non-empty, ordered sequence of leniently-parsed requests.
type Batch struct {
	Requests []*Request
}

// ParseBatch validates that raw is a non-empty JSON array, then parses
// every element leniently (one malformed element does not fail the batch).
func ParseBatch(raw json.RawMessage) (*Batch, *rpcerr.Error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, rpcerr.New(rpcerr.InvalidRequest, "Batch RPC call should be a list", nil)
	}
	if len(elements) == 0 {
		return nil, rpcerr.New(rpcerr.InvalidRequest, "Request is empty", nil)
	}

	requests := make([]*Request, len(elements))
	for i, element := range elements {
		requests[i] = ParseRequestLenient(element)
	}
	return &Batch{Requests: requests}, nil
}
