// Package metrics defines and registers all custom Prometheus metrics for
// the tournament API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tourney"

// LoginsTotal counts login attempts.
// Labels:
//   - result: "success" or "failure"
//   - role: the authenticated role on success, "none" on failure
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result and role.",
	},
	[]string{"result", "role"},
)

// ContentMutationsTotal counts domain collection mutations.
// Labels:
//   - collection: "drivers", "teams", "races", "news", "config"
//   - op: "add", "update", "remove", "update_details", "sort_grid", "replace"
var ContentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_mutations_total",
		Help:      "Total number of domain collection mutations, by collection and operation.",
	},
	[]string{"collection", "op"},
)

// SyncRefreshTotal counts feed refresh attempts.
// Label:
//   - result: "success", "failure", or "rejected" (already in flight)
var SyncRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_refresh_total",
		Help:      "Total number of feed refresh attempts, by result.",
	},
	[]string{"result"},
)

// SyncDuration measures how long a refresh attempt takes end-to-end,
// including failed attempts.
var SyncDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_refresh_duration_seconds",
		Help:      "Duration of feed refresh attempts.",
		Buckets:   prometheus.DefBuckets,
	},
)
