// Package metrics defines and registers all custom Prometheus metrics for
// the back-office gateway. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Upstream backend metrics ──────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the remote POS backend.
// Labels:
//   - resource: auth, clients, products, orders, inventory, sales
//   - outcome: "ok", "rejected" (non-2xx), "transport_error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the POS backend.",
	},
	[]string{"resource", "outcome"},
)

// UpstreamRequestDuration measures how long one backend call takes.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of POS backend calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionCacheTotal counts identity cache lookups.
// Label:
//   - result: "hit" (cached identity used) or "miss" (backend probed)
var SessionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_cache_total",
		Help:      "Total number of identity cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts by outcome ("ok" / "failed").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts.",
	},
	[]string{"outcome"},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// DraftSubmitsTotal counts order draft submissions.
// Label:
//   - result: "accepted", "rejected" (per-line errors, local or upstream),
//     "error" (the call itself failed)
var DraftSubmitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "draft_submits_total",
		Help:      "Total number of order draft submissions, by result.",
	},
	[]string{"result"},
)

// BulkUploadsTotal counts TSV bulk uploads.
// Labels:
//   - kind: "products" or "inventory"
//   - status: "SUCCESS", "UNSUCCESSFUL", or "error"
var BulkUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bulk_uploads_total",
		Help:      "Total number of TSV bulk uploads, by kind and status.",
	},
	[]string{"kind", "status"},
)
