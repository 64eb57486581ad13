package dispatch

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcmsg"
	"golang.org/x/sync/errgroup"
)

const (
	methodPipeline  = "pipeline"
	methodMultiExec = "multi_exec"
)

// Batch executes a JSON-RPC batch end to end (spec.md §4.4): parse
// leniently, group by pool preserving first-seen order, then fan out one
// goroutine per pool group via errgroup and flatten results in group
// order.
func (d *Dispatcher) Batch(ctx context.Context, raw json.RawMessage) ([]Response, *rpcerr.Error) {
	batch, rpcErr := rpcmsg.ParseBatch(raw)
	if rpcErr != nil {
		return nil, rpcErr
	}

	order, groups := groupByPool(batch.Requests)
	results := make([][]Response, len(order))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range order {
		i, name := i, name
		g.Go(func() error {
			results[i] = d.processPoolTasks(gctx, name, groups[name])
			return nil
		})
	}
	_ = g.Wait() // processPoolTasks never returns an error; failures become responses

	flattened := make([]Response, 0, len(batch.Requests))
	for _, group := range results {
		flattened = append(flattened, group...)
	}
	return flattened, nil
}

// groupByPool partitions requests by PoolName(), preserving input order
// within a group and first-seen order across groups (spec.md §4.4 step 2).
func groupByPool(requests []*rpcmsg.Request) ([]string, map[string][]*rpcmsg.Request) {
	order := make([]string, 0)
	groups := make(map[string][]*rpcmsg.Request)
	for _, req := range requests {
		name := req.PoolName()
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], req)
	}
	return order, groups
}

// processPoolTasks implements spec.md §4.4's process_pool_tasks for one
// pool-local sub-batch.
func (d *Dispatcher) processPoolTasks(ctx context.Context, poolName string, requests []*rpcmsg.Request) []Response {
	if rpcErr := validateSubBatch(requests); rpcErr != nil {
		out := make([]Response, len(requests))
		for i, req := range requests {
			out[i] = errorResponse(req.ID(), rpcErr)
		}
		return out
	}

	pool, rpcErr := d.Pools.Get(poolName)
	if rpcErr != nil {
		out := make([]Response, len(requests))
		for i, req := range requests {
			out[i] = errorResponse(req.ID(), rpcErr)
		}
		return out
	}

	container, remaining := openContainer(pool.Client, requests)

	type enqueued struct {
		req     *rpcmsg.Request
		extract func() (any, error)
	}
	preFailed := make([]Response, 0, len(remaining))
	queued := make([]enqueued, 0, len(remaining))

	for _, req := range remaining {
		if req.Err != nil {
			preFailed = append(preFailed, errorResponse(req.ID(), req.Err))
			continue
		}
		path := req.MethodPath()
		if len(path) < 2 {
			preFailed = append(preFailed, errorResponse(req.ID(),
				rpcerr.Newf(rpcerr.InvalidParams, req.Method, "method `%s` must be `<pool>.<command>`", req.Method)))
			continue
		}
		cmd, rpcErr := resolve(path[1:], req.Method)
		if rpcErr != nil {
			preFailed = append(preFailed, errorResponse(req.ID(), rpcErr))
			continue
		}
		args, kwargs, rpcErr := cmd.Bind(req.Params)
		if rpcErr != nil {
			preFailed = append(preFailed, errorResponse(req.ID(), rpcErr))
			continue
		}
		extract, err := commandTable[cmd.Name].call(ctx, container, args, kwargs)
		if err != nil {
			preFailed = append(preFailed, errorResponse(req.ID(), rpcerr.AsError(err)))
			continue
		}
		queued = append(queued, enqueued{req: req, extract: extract})
	}

	// Execute with return_exceptions semantics: a failing command does not
	// stop the others from running; per-command outcomes are read back
	// individually below via each command's own extract closure.
	_, _ = container.Exec(ctx)

	executed := make([]Response, 0, len(queued))
	for _, e := range queued {
		value, err := e.extract()
		if err != nil {
			executed = append(executed, Response{
				ID:      e.req.ID(),
				JSONRPC: jsonRPCVersion,
				Error:   &errorObject{Code: int(rpcerr.Generic), Message: err.Error()},
			})
			continue
		}
		executed = append(executed, successResponse(e.req.ID(), value))
	}

	out := make([]Response, 0, len(preFailed)+len(executed))
	out = append(out, preFailed...)
	out = append(out, executed...)
	return out
}

// openContainer decides the execution container for a pool-local
// sub-batch (spec.md §4.4 step "Determine the execution container") and
// returns the requests still needing dispatch once any leading
// pipeline/multi_exec marker has been dropped.
func openContainer(client *redis.Client, requests []*rpcmsg.Request) (redis.Pipeliner, []*rpcmsg.Request) {
	if len(requests) > 0 {
		switch requests[0].MethodName() {
		case methodMultiExec:
			return client.TxPipeline(), requests[1:]
		case methodPipeline:
			return client.Pipeline(), requests[1:]
		}
	}
	return client.Pipeline(), requests
}

// validateSubBatch enforces I4 (multi_exec/pipeline appears at most once,
// and only first) and I5 (a multi_exec sub-batch may carry no
// construction error on any member).
func validateSubBatch(requests []*rpcmsg.Request) *rpcerr.Error {
	controlCount := 0
	for i, req := range requests {
		name := req.MethodName()
		if name != methodPipeline && name != methodMultiExec {
			continue
		}
		controlCount++
		if i != 0 {
			return rpcerr.New(rpcerr.InvalidParams,
				"`multi_exec`/`pipeline` may appear only as the first request in a pool's sub-batch", nil)
		}
	}
	if controlCount > 1 {
		return rpcerr.New(rpcerr.InvalidParams,
			"`multi_exec`/`pipeline` may appear at most once per pool's sub-batch", nil)
	}
	if len(requests) > 0 && requests[0].MethodName() == methodMultiExec {
		for _, req := range requests {
			if req.Err != nil {
				return rpcerr.New(rpcerr.InvalidParams,
					"a `multi_exec` sub-batch may not contain a request with a construction error", nil)
			}
		}
	}
	return nil
}
