// Package poolreg implements the PoolRegistry: a name -> Redis connection
// pool map, with one pool designated for key-scan bookkeeping state.
package poolreg

import (
	"time"

	"github.com/go-redis/redis/v8"
)

// Spec describes one configured pool, mirroring the DSN query parameters
// spec.md §6 documents: minsize, maxsize, ssl, create_connection_timeout,
// db, password.
type Spec struct {
	ID           int
	Name         string
	Service      bool
	Addr         string
	DB           int
	Password     string
	TLS          bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
}

// Pool is a constructed Redis connection handle plus the Spec it came
// from, kept around for /status reporting.
type Pool struct {
	Spec   Spec
	Client *redis.Client
}

func (s Spec) buildClient() *redis.Client {
	opts := &redis.Options{
		Addr:         s.Addr,
		DB:           s.DB,
		Password:     s.Password,
		PoolSize:     s.PoolSize,
		MinIdleConns: s.MinIdleConns,
		DialTimeout:  s.DialTimeout,
	}
	if s.TLS {
		opts.TLSConfig = tlsConfig()
	}
	return redis.NewClient(opts)
}
