package standingsmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "majiang"

type prometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	degraded  *prometheus.CounterVec
	integrity *prometheus.CounterVec
}

// NewPrometheus registers the standings collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (StandingsMetrics, error) {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_successes_total",
			Help:      "Service operations that returned without an error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error or panicked.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "degraded_responses_total",
			Help:      "Tournament views served with metadata only.",
		}, []string{"reason"}),
		integrity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "standings",
			Name:      "integrity_faults_total",
			Help:      "Data integrity faults found in source rows.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.successes, m.failures, m.duration, m.degraded, m.integrity} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *prometheusMetrics) RecordDegradedResponse(_ context.Context, reason string) {
	m.degraded.WithLabelValues(reason).Inc()
}

func (m *prometheusMetrics) RecordIntegrityFault(_ context.Context, kind string) {
	m.integrity.WithLabelValues(kind).Inc()
}
