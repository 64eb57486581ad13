// Package dispatch implements the RpcDispatcher: single-call and batch
// execution against the pool registry's Redis clients.
package dispatch

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcmsg"
)

// Dispatcher ties the parsed wire format to a live PoolRegistry.
type Dispatcher struct {
	Pools *poolreg.Registry
}

// New builds a Dispatcher over pools.
func New(pools *poolreg.Registry) *Dispatcher {
	return &Dispatcher{Pools: pools}
}

// Single executes one JSON-RPC request end to end (spec.md §4.3).
func (d *Dispatcher) Single(ctx context.Context, raw json.RawMessage) Response {
	req := rpcmsg.ParseRequestLenient(raw)
	if req.Err != nil {
		return errorResponse(req.ID(), req.Err)
	}

	result, rpcErr := d.invokeOnClient(ctx, req)
	if rpcErr != nil {
		return errorResponse(req.ID(), rpcErr)
	}
	return successResponse(req.ID(), result)
}

// invokeOnClient resolves req's pool and command and runs it directly
// against the pool's live *redis.Client (as opposed to batch dispatch,
// which runs the same resolve+bind step against a pipeline or
// transaction container).
func (d *Dispatcher) invokeOnClient(ctx context.Context, req *rpcmsg.Request) (any, *rpcerr.Error) {
	path := req.MethodPath()
	if len(path) < 2 {
		return nil, rpcerr.Newf(rpcerr.InvalidParams, req.Method, "method `%s` must be `<pool>.<command>`", req.Method)
	}

	pool, rpcErr := d.Pools.Get(req.PoolName())
	if rpcErr != nil {
		return nil, rpcErr
	}

	return invoke(ctx, pool.Client, path[1:], req.Method, req.Params)
}

// invoke resolves commandPath against the method table, binds params, and
// runs the resulting command against rdb, fully realizing the result (as
// opposed to Batch's processPoolTasks, which only queues the command on
// a pipeline and extracts its result after Exec).
func invoke(ctx context.Context, rdb redis.Cmdable, commandPath []string, fullMethod string, params rpcmsg.Params) (any, *rpcerr.Error) {
	cmd, rpcErr := resolve(commandPath, fullMethod)
	if rpcErr != nil {
		return nil, rpcErr
	}

	args, kwargs, rpcErr := cmd.Bind(params)
	if rpcErr != nil {
		return nil, rpcErr
	}

	desc := commandTable[cmd.Name]
	extract, err := desc.call(ctx, rdb, args, kwargs)
	if err != nil {
		return nil, rpcerr.AsError(err)
	}
	value, err := extract()
	if err != nil {
		return nil, rpcerr.AsError(err)
	}
	return value, nil
}
