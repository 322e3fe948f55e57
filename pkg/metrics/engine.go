package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records outcomes and latency for the inventory engine's
// mutating operations (reserve, deduct, release, adjust).
type EngineMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_operation_duration_seconds",
		Help:    "Duration of inventory engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_operation_total",
		Help: "Inventory engine operations by outcome code.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, outcomes)
	return &EngineMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *EngineMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncOutcome increments the outcome counter, where outcome is "ok" or a
// stable error code.
func (m *EngineMetrics) IncOutcome(operation, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	if outcome == "" {
		outcome = "ok"
	}
	m.outcomes.WithLabelValues(operation, outcome).Inc()
}
