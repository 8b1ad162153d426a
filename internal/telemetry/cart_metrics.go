package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CartMetrics holds Prometheus metrics for the cart and checkout funnel.
type CartMetrics struct {
	CartsCreated      prometheus.Counter
	ItemsAdded        prometheus.Counter
	ItemsUpdated      prometheus.Counter
	ItemsRemoved      prometheus.Counter
	CheckoutCompleted prometheus.Counter
	CheckoutRejected  *prometheus.CounterVec
	CheckoutValue     prometheus.Histogram
	WriteConflicts    prometheus.Counter
}

// NewCartMetrics creates cart metrics registered on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewCartMetrics(namespace string, reg prometheus.Registerer) *CartMetrics {
	if namespace == "" {
		namespace = "qkart"
	}

	factory := promauto.With(reg)
	subsystem := "cart"

	return &CartMetrics{
		CartsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "created_total",
			Help:      "Carts created on first add",
		}),
		ItemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_added_total",
			Help:      "Lines added to carts",
		}),
		ItemsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_updated_total",
			Help:      "Line quantity updates",
		}),
		ItemsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_removed_total",
			Help:      "Lines removed from carts",
		}),
		CheckoutCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_completed_total",
			Help:      "Successful checkouts",
		}),
		CheckoutRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_rejected_total",
			Help:      "Checkouts refused by a business rule",
		}, []string{"reason"}), // reason: no_cart, empty, no_address, insufficient_balance
		CheckoutValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_value",
			Help:      "Cart total at successful checkout",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 25000, 50000, 100000},
		}),
		WriteConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "write_conflicts_total",
			Help:      "Cart writes rejected because the stored version moved",
		}),
	}
}
