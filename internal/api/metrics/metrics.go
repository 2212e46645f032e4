// Package metrics defines and registers all custom Prometheus metrics for the
// bugtrack API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics use promauto and register with the default registry at package
// initialisation; nothing further is required at startup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bugtrack"

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token",
//     "revoked", "missing_subject", "unknown_user"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected during authentication.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts authenticated requests denied by role gating.
// Label:
//   - role: the role the rejected principal held
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests denied by RBAC.",
	},
	[]string{"role"},
)

// MutationsTotal counts admin mutations by resource and outcome.
// Labels:
//   - resource: "user", "project", "assignment"
//   - action: "create", "update", "delete", "assign"
//   - outcome: "ok" or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of admin mutations, by resource, action and outcome.",
	},
	[]string{"resource", "action", "outcome"},
)

// AuditQueueDepth tracks the number of audit entries waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
