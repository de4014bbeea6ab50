// Package middleware provides cross-cutting concerns for the verdict
// service.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jessewalberg/aita/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It tracks verdict throughput, per-judge outcomes, and
// pipeline latency.
type PrometheusMetrics struct {
	verdictRequests  *prometheus.CounterVec
	judgeVerdicts    *prometheus.CounterVec
	executionLatency *prometheus.HistogramVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance registered
// in the default registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers the metrics with the given
// registerer. Tests pass a fresh registry to avoid duplicate
// registration panics.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		verdictRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verdict_requests_total",
				Help: "Total verdict pipeline runs by mode and outcome.",
			},
			[]string{"mode", "status"},
		),
		judgeVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_verdicts_total",
				Help: "Verdicts rendered per judge, including fallback results.",
			},
			[]string{"judge", "verdict", "success"},
		),
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verdict_operation_duration_seconds",
				Help:    "Execution time of verdict pipeline operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "mode"},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "verdict_system_state",
				Help: "Current system state values for the verdict service.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records execution latency in the operation histogram.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	mode, ok := labels["mode"]
	if !ok {
		mode = "unknown"
	}
	pm.executionLatency.WithLabelValues(operation, mode).Observe(duration.Seconds())
}

// RecordCounter increments the counter matching the metric name.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "verdict_requests_total":
		pm.verdictRequests.WithLabelValues(labels["mode"], labels["status"]).Add(value)
	case "judge_verdicts_total":
		pm.judgeVerdicts.WithLabelValues(labels["judge"], labels["verdict"], labels["success"]).Add(value)
	default:
		pm.verdictRequests.WithLabelValues(labels["mode"], metric).Add(value)
	}
}

// RecordGauge sets the named system gauge.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.systemGauges.WithLabelValues(metric).Set(value)
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
