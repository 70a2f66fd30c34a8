package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// PrometheusMetricsRecorder records metrics using Prometheus.
type PrometheusMetricsRecorder struct {
	keysGeneratedTotal   *prometheus.CounterVec
	reportsSignedTotal   *prometheus.CounterVec
	verificationsTotal   *prometheus.CounterVec
	reportsStoredTotal   prometheus.Counter
	reportsStoredBytes   prometheus.Counter
	publishAttemptsTotal *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder creates a new Prometheus metrics recorder
// using the default Prometheus registry.
func NewPrometheusMetricsRecorder() *PrometheusMetricsRecorder {
	return NewPrometheusMetricsRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsRecorderWithRegistry creates a new Prometheus metrics recorder
// with a custom registry. Use this for testing.
func NewPrometheusMetricsRecorderWithRegistry(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	keysGeneratedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jux_keys_generated_total",
		Help: "Total signing keys generated",
	}, []string{"algorithm"})

	reportsSignedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jux_reports_signed_total",
		Help: "Total reports signed",
	}, []string{"algorithm"})

	verificationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jux_verifications_total",
		Help: "Total signature verification attempts",
	}, []string{"outcome"})

	reportsStoredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jux_reports_stored_total",
		Help: "Total reports archived locally",
	})

	reportsStoredBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jux_reports_stored_bytes_total",
		Help: "Total bytes of archived reports",
	})

	publishAttemptsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jux_publish_attempts_total",
		Help: "Total report publish attempts",
	}, []string{"outcome"})

	reg.MustRegister(
		keysGeneratedTotal,
		reportsSignedTotal,
		verificationsTotal,
		reportsStoredTotal,
		reportsStoredBytes,
		publishAttemptsTotal,
	)

	return &PrometheusMetricsRecorder{
		keysGeneratedTotal:   keysGeneratedTotal,
		reportsSignedTotal:   reportsSignedTotal,
		verificationsTotal:   verificationsTotal,
		reportsStoredTotal:   reportsStoredTotal,
		reportsStoredBytes:   reportsStoredBytes,
		publishAttemptsTotal: publishAttemptsTotal,
	}
}

// RecordKeyGenerated records a key generation by algorithm, e.g. "rsa-2048".
func (p *PrometheusMetricsRecorder) RecordKeyGenerated(algorithm string) {
	p.keysGeneratedTotal.WithLabelValues(algorithm).Inc()
}

// RecordReportSigned records a signing operation by signature algorithm.
func (p *PrometheusMetricsRecorder) RecordReportSigned(algorithm string) {
	p.reportsSignedTotal.WithLabelValues(algorithm).Inc()
}

// RecordVerification records a verification outcome.
func (p *PrometheusMetricsRecorder) RecordVerification(outcome string) {
	p.verificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordReportStored records one archived report and its size.
func (p *PrometheusMetricsRecorder) RecordReportStored(sizeBytes int) {
	p.reportsStoredTotal.Inc()
	p.reportsStoredBytes.Add(float64(sizeBytes))
}

// RecordPublish records a publish attempt result.
func (p *PrometheusMetricsRecorder) RecordPublish(outcome string) {
	p.publishAttemptsTotal.WithLabelValues(outcome).Inc()
}

// Ensure PrometheusMetricsRecorder implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*PrometheusMetricsRecorder)(nil)
