// Package metrics defines and registers all custom Prometheus metrics for the
// console sync service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics self-register with the default Prometheus registry via promauto at
// package load; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Sync metrics ──────────────────────────────────────────────────────────────

// SyncRunsTotal counts sync passes by how they started and how they ended.
// Labels:
//   - trigger: "manual", "auto", or "refresh"
//   - result: "ok" or "error"
var SyncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of sync passes, by trigger and result.",
	},
	[]string{"trigger", "result"},
)

// SyncDurationSeconds measures how long a full sync takes end-to-end,
// excluding the loading floor wait.
var SyncDurationSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of full sync passes from first fetch to commit.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Push metrics ──────────────────────────────────────────────────────────────

// PushEventsTotal counts push events merged into the mirror.
// Labels:
//   - kind: entity kind the event targeted (e.g. "billing")
//   - op: "insert", "update", or "delete"
var PushEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_events_total",
		Help:      "Total number of push events merged into the mirror.",
	},
	[]string{"kind", "op"},
)

// PushErrorsTotal counts push events dropped before reaching the mirror.
// Label:
//   - reason: short failure description (e.g. "decode", "missing_payload")
var PushErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_errors_total",
		Help:      "Total number of push events dropped due to errors.",
	},
	[]string{"reason"},
)

// ── Board metrics ─────────────────────────────────────────────────────────────

// BoardMovesTotal counts kanban card moves.
// Label:
//   - result: "confirmed" or "rolled_back"
var BoardMovesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_moves_total",
		Help:      "Total number of kanban board moves, by outcome.",
	},
	[]string{"result"},
)
