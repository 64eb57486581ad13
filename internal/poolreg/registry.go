package poolreg

import (
	"context"
	"fmt"
	"sync"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
	"golang.org/x/sync/singleflight"
)

// Registry is the process-lifetime name -> Pool map. Specs are known up
// front (from configuration); the underlying *redis.Client for each pool
// is constructed lazily on first use and memoized, with construction
// guarded per-name by a singleflight.Group so concurrent first accesses
// to the same pool name build exactly one client.
type Registry struct {
	mu          sync.RWMutex
	specs       map[string]Spec
	pools       map[string]*Pool
	order       []string // natural-sort order of originating env var names
	serviceName string
	group       singleflight.Group
}

// New builds a Registry from the given specs, which must already be in
// their natural enumeration order (see gwconfig). The first spec flagged
// Service becomes the service pool; absent that, the first spec in order.
func New(specs []Spec) *Registry {
	r := &Registry{
		specs: make(map[string]Spec, len(specs)),
		pools: make(map[string]*Pool, len(specs)),
		order: make([]string, 0, len(specs)),
	}
	for _, s := range specs {
		r.specs[s.Name] = s
		r.order = append(r.order, s.Name)
		if s.Service && r.serviceName == "" {
			r.serviceName = s.Name
		}
	}
	if r.serviceName == "" && len(r.order) > 0 {
		r.serviceName = r.order[0]
	}
	return r
}

// Names returns the registered pool names in enumeration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the pool for name, lazily constructing its client on first
// access. Unknown names are reported as MethodNotFound so dispatch can
// surface them directly as a JSON-RPC error.
func (r *Registry) Get(name string) (*Pool, *rpcerr.Error) {
	r.mu.RLock()
	if p, ok := r.pools[name]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	spec, known := r.specs[name]
	r.mu.RUnlock()

	if !known {
		return nil, rpcerr.Newf(rpcerr.MethodNotFound, name, "Pool with name `%s` does not exist", name)
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		r.mu.RLock()
		if p, ok := r.pools[name]; ok {
			r.mu.RUnlock()
			return p, nil
		}
		r.mu.RUnlock()

		pool := &Pool{Spec: spec, Client: spec.buildClient()}

		r.mu.Lock()
		if existing, ok := r.pools[name]; ok {
			r.mu.Unlock()
			_ = pool.Client.Close()
			return existing, nil
		}
		r.pools[name] = pool
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, rpcerr.New(rpcerr.InternalError, err.Error(), nil)
	}
	return v.(*Pool), nil
}

// Service returns the pool designated for key-scan bookkeeping.
func (r *Registry) Service() (*Pool, *rpcerr.Error) {
	if r.serviceName == "" {
		return nil, rpcerr.New(rpcerr.InternalError, "no pools registered", nil)
	}
	return r.Get(r.serviceName)
}

// Close tears down every pool that was actually constructed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, p := range r.pools {
		if err := p.Client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Status is the safe-to-expose bundle returned by GET /status.
type Status struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	DB      int    `json:"db"`
	Service bool   `json:"service"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// StatusAll pings every registered pool (constructing it if necessary)
// and reports health, in enumeration order.
func (r *Registry) StatusAll(ctx context.Context) []Status {
	names := r.Names()
	out := make([]Status, 0, len(names))
	for _, name := range names {
		pool, rpcErr := r.Get(name)
		st := Status{Name: name, Service: name == r.serviceName}
		if rpcErr != nil {
			st.Error = rpcErr.Message
			out = append(out, st)
			continue
		}
		st.ID = pool.Spec.ID
		st.DB = pool.Spec.DB
		if err := pool.Client.Ping(ctx).Err(); err != nil {
			st.Error = fmt.Sprintf("ping failed: %v", err)
		} else {
			st.Healthy = true
		}
		out = append(out, st)
	}
	return out
}
