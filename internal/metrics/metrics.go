// Package metrics declares the Prometheus collectors for the FairShare
// server. Collectors are registered on the default registry and exposed via
// promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsRecorded counts accepted transaction writes by kind.
	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fairshare_transactions_recorded_total",
		Help: "Number of transactions recorded, by kind.",
	}, []string{"kind"})

	// BalanceRecomputes observes balance aggregation runs triggered by
	// snapshot replacements or balance reads.
	BalanceRecomputes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fairshare_balance_recompute_seconds",
		Help:    "Duration of balance aggregation runs.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})

	// SnapshotsApplied counts collection snapshots applied by the sync
	// coordinator.
	SnapshotsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fairshare_snapshots_applied_total",
		Help: "Number of collection snapshots applied, by collection.",
	}, []string{"collection"})

	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fairshare_http_requests_total",
		Help: "Number of HTTP requests handled, by method and status.",
	}, []string{"method", "status"})

	// HTTPDuration observes HTTP request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fairshare_http_request_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
