// Package metrics defines and registers all custom Prometheus metrics for the
// admin console API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin"

// ── User metrics ──────────────────────────────────────────────────────────────

// UserCommandsTotal counts user create/update/delete commands.
// Labels:
//   - op: "create", "update" or "delete"
//   - result: "ok", "invalid", "conflict", "not_found" or "error"
var UserCommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_commands_total",
		Help:      "Total number of user commands, by operation and result.",
	},
	[]string{"op", "result"},
)

// IdempotencyTotal counts Idempotency-Key decisions on user creation.
// Label:
//   - result: "hit" (replayed, nothing written) or "miss" (new user created)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Total number of idempotency checks on user creation, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// UserQueryDuration measures how long a filtered, paginated user listing takes.
var UserQueryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "user_query_duration_seconds",
		Help:      "Duration of user listing queries.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Role metrics ──────────────────────────────────────────────────────────────

// RoleCommandsTotal counts role commands.
// Labels:
//   - op: "create", "update", "set_permission" or "delete"
//   - result: "ok", "invalid", "protected", "conflict", "not_found" or "error"
var RoleCommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_commands_total",
		Help:      "Total number of role commands, by operation and result.",
	},
	[]string{"op", "result"},
)

// PermissionDeniedTotal counts requests rejected by the permission middleware.
// Label:
//   - permission: the permission key the route requires
var PermissionDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denied_total",
		Help:      "Total number of requests rejected for a missing permission.",
	},
	[]string{"permission"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "forbidden" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordChangesTotal counts self-service password changes.
// Label:
//   - result: "ok", "incorrect_password", "invalid" or "error"
var PasswordChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_changes_total",
		Help:      "Total number of password change attempts, by result.",
	},
	[]string{"result"},
)
