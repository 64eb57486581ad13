// Package metrics provides Prometheus instrumentation for the RPC
// gateway's dispatch and key-scan paths (ambient concern, carried per
// SPEC_FULL.md §4.8 even though spec.md itself is silent on metrics).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RPCCallsTotal counts commands reported through RecordRPCCall, by
	// pool, method, and outcome (ok, error). The dispatch package does
	// not call RecordRPCCall, so served requests are not counted here.
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "rpc_calls_total",
			Help:      "Total number of dispatched RPC commands",
		},
		[]string{"pool", "method", "outcome"},
	)

	// RPCDispatchDuration is a histogram for the duration of a single
	// dispatched command, labeled by pool and method. No code in the
	// gateway observes it.
	RPCDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "rpc_dispatch_duration_seconds",
			Help:      "Duration of a single RPC command dispatch in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"pool", "method"},
	)

	// ScanPagesTotal is a counter for key-scan page fetches, split by
	// search kind (sorted, unsorted). The keyscan package does not
	// increment it.
	ScanPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "scan_pages_total",
			Help:      "Total number of key-scan pages served",
		},
		[]string{"search_kind"},
	)
)

// RecordRPCCall records the outcome of one dispatched command.
func RecordRPCCall(pool, method string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RPCCallsTotal.WithLabelValues(pool, method, outcome).Inc()
}

// Handler returns the HTTP handler serving the Prometheus exposition
// format, for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
