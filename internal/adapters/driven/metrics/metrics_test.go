//go:build unit

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"

	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// TestNoopMetricsRecorder_Interface verifies the interface contract.
func TestNoopMetricsRecorder_Interface(t *testing.T) {
	var _ ports.MetricsRecorder = (*NoopMetricsRecorder)(nil)
}

// TestNoopMetricsRecorder_AllMethods verifies all methods don't panic.
func TestNoopMetricsRecorder_AllMethods(t *testing.T) {
	recorder := NewNoopMetricsRecorder()

	// None of these should panic
	recorder.RecordKeyGenerated("rsa-2048")
	recorder.RecordReportSigned("rsa-sha256")
	recorder.RecordVerification("valid")
	recorder.RecordVerification("invalid")
	recorder.RecordReportStored(4096)
	recorder.RecordPublish("published")
	recorder.RecordPublish("failed")
}

// TestPrometheusMetricsRecorder_Interface verifies the interface contract.
func TestPrometheusMetricsRecorder_Interface(t *testing.T) {
	var _ ports.MetricsRecorder = (*PrometheusMetricsRecorder)(nil)
}

// findMetricFamily returns the named family from a gather, or nil.
func findMetricFamily(t *testing.T, registry *prometheus.Registry, name string) *io_prometheus_client.MetricFamily {
	t.Helper()
	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metricFamilies {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

// labelValue returns the value of the named label on a metric.
func labelValue(m *io_prometheus_client.Metric, name string) string {
	for _, label := range m.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

// TestPrometheusMetricsRecorder_RecordKeyGenerated verifies key generation counting.
func TestPrometheusMetricsRecorder_RecordKeyGenerated(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusMetricsRecorderWithRegistry(registry)

	recorder.RecordKeyGenerated("rsa-2048")
	recorder.RecordKeyGenerated("rsa-2048")
	recorder.RecordKeyGenerated("ecdsa-p256")

	family := findMetricFamily(t, registry, "jux_keys_generated_total")
	if family == nil {
		t.Fatal("jux_keys_generated_total metric not found")
	}
	if len(family.GetMetric()) != 2 {
		t.Errorf("expected 2 metric entries, got %d", len(family.GetMetric()))
	}
	for _, m := range family.GetMetric() {
		algorithm := labelValue(m, "algorithm")
		value := m.GetCounter().GetValue()
		if algorithm == "rsa-2048" && value != 2 {
			t.Errorf("rsa-2048 count = %v, want 2", value)
		}
		if algorithm == "ecdsa-p256" && value != 1 {
			t.Errorf("ecdsa-p256 count = %v, want 1", value)
		}
	}
}

// TestPrometheusMetricsRecorder_RecordVerification verifies outcome labels.
func TestPrometheusMetricsRecorder_RecordVerification(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusMetricsRecorderWithRegistry(registry)

	recorder.RecordVerification("valid")
	recorder.RecordVerification("valid")
	recorder.RecordVerification("invalid")
	recorder.RecordVerification("no_signature")

	family := findMetricFamily(t, registry, "jux_verifications_total")
	if family == nil {
		t.Fatal("jux_verifications_total metric not found")
	}
	if len(family.GetMetric()) != 3 {
		t.Errorf("expected 3 metric entries, got %d", len(family.GetMetric()))
	}
	for _, m := range family.GetMetric() {
		outcome := labelValue(m, "outcome")
		value := m.GetCounter().GetValue()
		if outcome == "valid" && value != 2 {
			t.Errorf("valid count = %v, want 2", value)
		}
		if outcome == "invalid" && value != 1 {
			t.Errorf("invalid count = %v, want 1", value)
		}
		if outcome == "no_signature" && value != 1 {
			t.Errorf("no_signature count = %v, want 1", value)
		}
	}
}

// TestPrometheusMetricsRecorder_RecordReportStored verifies the count and
// the byte accumulator move together.
func TestPrometheusMetricsRecorder_RecordReportStored(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusMetricsRecorderWithRegistry(registry)

	recorder.RecordReportStored(1000)
	recorder.RecordReportStored(2048)

	countFamily := findMetricFamily(t, registry, "jux_reports_stored_total")
	if countFamily == nil {
		t.Fatal("jux_reports_stored_total metric not found")
	}
	if value := countFamily.GetMetric()[0].GetCounter().GetValue(); value != 2 {
		t.Errorf("stored count = %v, want 2", value)
	}

	bytesFamily := findMetricFamily(t, registry, "jux_reports_stored_bytes_total")
	if bytesFamily == nil {
		t.Fatal("jux_reports_stored_bytes_total metric not found")
	}
	if value := bytesFamily.GetMetric()[0].GetCounter().GetValue(); value != 3048 {
		t.Errorf("stored bytes = %v, want 3048", value)
	}
}

// TestPrometheusMetricsRecorder_RecordPublish verifies publish outcomes.
func TestPrometheusMetricsRecorder_RecordPublish(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusMetricsRecorderWithRegistry(registry)

	recorder.RecordPublish("published")
	recorder.RecordPublish("duplicate")
	recorder.RecordPublish("failed")
	recorder.RecordPublish("published")

	family := findMetricFamily(t, registry, "jux_publish_attempts_total")
	if family == nil {
		t.Fatal("jux_publish_attempts_total metric not found")
	}
	for _, m := range family.GetMetric() {
		outcome := labelValue(m, "outcome")
		value := m.GetCounter().GetValue()
		if outcome == "published" && value != 2 {
			t.Errorf("published count = %v, want 2", value)
		}
		if outcome == "duplicate" && value != 1 {
			t.Errorf("duplicate count = %v, want 1", value)
		}
		if outcome == "failed" && value != 1 {
			t.Errorf("failed count = %v, want 1", value)
		}
	}
}

// TestPrometheusMetricsRecorder_RecordReportSigned verifies algorithm labels.
func TestPrometheusMetricsRecorder_RecordReportSigned(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewPrometheusMetricsRecorderWithRegistry(registry)

	recorder.RecordReportSigned("rsa-sha256")
	recorder.RecordReportSigned("ecdsa-sha256")
	recorder.RecordReportSigned("rsa-sha256")

	family := findMetricFamily(t, registry, "jux_reports_signed_total")
	if family == nil {
		t.Fatal("jux_reports_signed_total metric not found")
	}
	for _, m := range family.GetMetric() {
		algorithm := labelValue(m, "algorithm")
		value := m.GetCounter().GetValue()
		if algorithm == "rsa-sha256" && value != 2 {
			t.Errorf("rsa-sha256 count = %v, want 2", value)
		}
		if algorithm == "ecdsa-sha256" && value != 1 {
			t.Errorf("ecdsa-sha256 count = %v, want 1", value)
		}
	}
}
