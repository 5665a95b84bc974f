// Package metrics defines and registers the custom Prometheus metrics for
// the user-management API. It is the single source of truth for metric
// names, labels and help strings; HTTP-level metrics (latency, status
// codes) come from the echoprometheus middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usermgmt"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts completed self-service registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of completed self-service registrations.",
	},
)

// UserMutationsTotal counts admin-issued user mutations.
// Label:
//   - op: "create", "update" or "delete"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of admin user mutations, by operation.",
	},
	[]string{"op"},
)

// CSVExportsTotal counts completed CSV exports.
var CSVExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_exports_total",
		Help:      "Total number of completed user CSV exports.",
	},
)
