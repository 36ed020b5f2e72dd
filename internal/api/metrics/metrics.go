// Package metrics defines the custom Prometheus metrics of the camera
// registry. All metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "camera_registry"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts successful registrations.
// Label:
//   - role: "client" or "server"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

// ── Presence metrics ──────────────────────────────────────────────────────────

// PresenceChangesTotal counts accepted camera state updates.
// Label:
//   - state: "active" or "inactive"
var PresenceChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_changes_total",
		Help:      "Total number of camera presence updates, by resulting state.",
	},
	[]string{"state"},
)

// DiscoveryTotal counts discovery lookups made for client callers.
// Label:
//   - result: "hit" (a server was found) or "miss"
var DiscoveryTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discovery_total",
		Help:      "Total number of server discovery lookups, by result.",
	},
	[]string{"result"},
)
