// Package metrics defines and registers all custom Prometheus metrics for the
// FacilityFix user administration gateway. It is the single source of truth
// for metric names, labels, and help strings. Metrics register themselves
// with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "facilityfix"

// OperationsTotal counts gateway operation outcomes.
// Labels:
//   - operation: create_user, set_user_role, delete_user, list_users,
//     update_profile, get_statistics
//   - outcome: ok, denied, invalid, error
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_operations_total",
		Help:      "Total number of user administration operations, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// UsersCreatedTotal counts newly provisioned users.
// Label:
//   - role: the role claim attached at creation (free-form at this boundary)
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts credential issuance attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// OperationDuration measures how long a gateway operation takes end-to-end,
// including its collaborator calls.
// Label:
//   - operation: same values as OperationsTotal
var OperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "admin_operation_duration_seconds",
		Help:      "Duration of user administration operations.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"operation"},
)
