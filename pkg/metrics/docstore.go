package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DocstoreMetrics records latency and failure metadata for document store operations.
type DocstoreMetrics struct {
	duration      *prometheus.HistogramVec
	failure       *prometheus.CounterVec
	subscriptions *prometheus.GaugeVec
}

// NewDocstoreMetrics registers the document store metrics on the provided registerer.
func NewDocstoreMetrics(reg prometheus.Registerer) *DocstoreMetrics {
	if reg == nil {
		return &DocstoreMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docstore_op_duration_seconds",
		Help:    "Duration of document store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docstore_op_failure",
		Help: "Failed document store operations.",
	}, []string{"collection", "op", "code"})
	subscriptions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "docstore_active_subscriptions",
		Help: "Currently active change subscriptions.",
	}, []string{"collection"})
	reg.MustRegister(duration, failure, subscriptions)
	return &DocstoreMetrics{
		duration:      duration,
		failure:       failure,
		subscriptions: subscriptions,
	}
}

// ObserveOp records the duration for one operation against a collection.
func (d *DocstoreMetrics) ObserveOp(collection, op string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(collection), normalizeLabel(op)).Observe(duration.Seconds())
}

// IncFailure increments the failure counter for one operation.
func (d *DocstoreMetrics) IncFailure(collection, op, code string) {
	if d == nil || d.failure == nil {
		return
	}
	d.failure.WithLabelValues(normalizeLabel(collection), normalizeLabel(op), normalizeLabel(code)).Inc()
}

// SubscriptionOpened bumps the active subscription gauge for a collection.
func (d *DocstoreMetrics) SubscriptionOpened(collection string) {
	if d == nil || d.subscriptions == nil {
		return
	}
	d.subscriptions.WithLabelValues(normalizeLabel(collection)).Inc()
}

// SubscriptionClosed decrements the active subscription gauge for a collection.
func (d *DocstoreMetrics) SubscriptionClosed(collection string) {
	if d == nil || d.subscriptions == nil {
		return
	}
	d.subscriptions.WithLabelValues(normalizeLabel(collection)).Dec()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
