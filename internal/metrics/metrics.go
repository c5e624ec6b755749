// Package metrics defines all custom Prometheus metrics for the marketplace
// client core. It is the single source of truth for metric names, labels,
// and help strings. Collectors register on the default registry via
// promauto; exposing them is the embedding application's concern.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// SignupsCompletedTotal counts signup wizard completions.
// Label:
//   - role: "client" or "professional"
var SignupsCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_completed_total",
		Help:      "Total number of completed signup wizards, by role.",
	},
	[]string{"role"},
)

// CartMutationsTotal counts cart line-item mutations.
// Label:
//   - op: "add", "remove", "update_quantity", "clear"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"op"},
)

// OrdersCreatedTotal counts checkout conversions.
// Label:
//   - payment_method: the method tag supplied at checkout (e.g. "cod")
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by payment method.",
	},
	[]string{"payment_method"},
)

// OrderStatusUpdatesTotal counts accepted order status transitions.
// Label:
//   - status: the status the order moved to
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of accepted order status transitions, by new status.",
	},
	[]string{"status"},
)

// SnapshotWriteFailuresTotal counts failed write-behind snapshot writes. The
// in-memory state stays authoritative after a failure.
// Label:
//   - key: the snapshot key ("session", "cart", "orders")
var SnapshotWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_write_failures_total",
		Help:      "Total number of failed snapshot writes, by snapshot key.",
	},
	[]string{"key"},
)

// SnapshotQueueDepth tracks pending writes per persister worker.
// Label:
//   - worker_id: numeric worker index ("0", "1", ...)
var SnapshotQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_queue_depth",
		Help:      "Current number of snapshot writes pending in each persister worker channel.",
	},
	[]string{"worker_id"},
)
