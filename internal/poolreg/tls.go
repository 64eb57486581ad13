package poolreg

import "crypto/tls"

// tlsConfig returns the minimal client TLS config used when a pool's DSN
// carries ssl=true. Certificate pinning and mutual TLS are out of this
// gateway's scope (spec.md Non-goals: TLS termination).
func tlsConfig() *tls.Config {
	return &tls.Config{MinVersion: tls.VersionTLS12}
}
