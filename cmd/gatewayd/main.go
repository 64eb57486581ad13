// Gatewayd is the Redis RPC gateway daemon: it exposes a JSON-RPC 2.0
// surface over a set of Redis pools plus server-assisted key-scan
// pagination (spec.md §§1-6).
//
// Configuration is loaded from environment variables (REDIS_*,
// GATEWAY_*) and an optional YAML file. See internal/gwconfig for
// details.
//
// Usage:
//
//	# Start the gateway with defaults
//	gatewayd serve
//
//	# Configure via environment
//	REDIS_0=redis://localhost:6379 GATEWAY_HTTP_ADDR=:9090 gatewayd serve
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "gatewayd",
	Short:   "Redis RPC gateway daemon",
	Long:    `gatewayd exposes a JSON-RPC 2.0 surface over a set of Redis pools, with server-assisted cursor-based key-scan pagination.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an optional YAML settings file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
