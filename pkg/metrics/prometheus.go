package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal  *prometheus.CounterVec
	degradedTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepilot_signals_total",
				Help: "Total number of fused signals produced",
			},
			[]string{"coin", "action"},
		),
		degradedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepilot_degraded_signals_total",
				Help: "Total number of degraded sub-signals by source",
			},
			[]string{"coin", "source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradepilot_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradepilot_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal records a fused signal by coin and action.
func (r *Recorder) RecordSignal(coin, action string) {
	r.signalsTotal.WithLabelValues(coin, action).Inc()
}

// RecordDegraded records a degraded sub-signal.
func (r *Recorder) RecordDegraded(coin, source string) {
	r.degradedTotal.WithLabelValues(coin, source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
