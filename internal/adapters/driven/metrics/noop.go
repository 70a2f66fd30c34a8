package metrics

import (
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// NoopMetricsRecorder is a no-op implementation for when metrics are disabled.
// All methods are safe to call and do nothing.
type NoopMetricsRecorder struct{}

// NewNoopMetricsRecorder creates a new no-op metrics recorder.
func NewNoopMetricsRecorder() *NoopMetricsRecorder {
	return &NoopMetricsRecorder{}
}

// RecordKeyGenerated is a no-op.
func (n *NoopMetricsRecorder) RecordKeyGenerated(algorithm string) {}

// RecordReportSigned is a no-op.
func (n *NoopMetricsRecorder) RecordReportSigned(algorithm string) {}

// RecordVerification is a no-op.
func (n *NoopMetricsRecorder) RecordVerification(outcome string) {}

// RecordReportStored is a no-op.
func (n *NoopMetricsRecorder) RecordReportStored(sizeBytes int) {}

// RecordPublish is a no-op.
func (n *NoopMetricsRecorder) RecordPublish(outcome string) {}

// Ensure NoopMetricsRecorder implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*NoopMetricsRecorder)(nil)
