package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records storefront activity.
type StoreMetrics struct {
	ordersPlaced *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
}

// NewStoreMetrics registers the storefront metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dryfruit_orders_placed_total",
		Help: "Orders placed, by payment method.",
	}, []string{"payment_method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dryfruit_order_status_transitions_total",
		Help: "Order status changes, by target status.",
	}, []string{"status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dryfruit_simulated_latency_seconds",
		Help:    "Simulated backend delay applied before store mutations.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5},
	}, []string{"operation"})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dryfruit_snapshot_errors_total",
		Help: "Snapshot load or save failures, by store.",
	}, []string{"store"})
	reg.MustRegister(ordersPlaced, transitions, latency, storeErrors)
	return &StoreMetrics{
		ordersPlaced: ordersPlaced,
		transitions:  transitions,
		latency:      latency,
		storeErrors:  storeErrors,
	}
}

// IncOrderPlaced counts a placed order.
func (m *StoreMetrics) IncOrderPlaced(paymentMethod string) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStatusTransition counts an order moving into status.
func (m *StoreMetrics) IncStatusTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveLatency records a simulated delay.
func (m *StoreMetrics) ObserveLatency(op string, d time.Duration) {
	if m == nil || m.latency == nil {
		return
	}
	m.latency.WithLabelValues(normalizeLabel(op)).Observe(d.Seconds())
}

// IncStoreError counts a failed snapshot operation.
func (m *StoreMetrics) IncStoreError(store string) {
	if m == nil || m.storeErrors == nil {
		return
	}
	m.storeErrors.WithLabelValues(normalizeLabel(store)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
