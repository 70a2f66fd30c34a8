//go:build unit

package jux

import (
	"sync"
	"testing"
)

// MockMetricsRecorder is a thread-safe test double for MetricsRecorder.
// Use in any test file that needs to verify metrics recording behavior.
type MockMetricsRecorder struct {
	mu            sync.Mutex
	keysGenerated []string
	reportsSigned []string
	verifications []string
	storedBytes   []int
	publishes     []string
}

// RecordKeyGenerated implements MetricsRecorder.
func (m *MockMetricsRecorder) RecordKeyGenerated(algorithm string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keysGenerated = append(m.keysGenerated, algorithm)
}

// RecordReportSigned implements MetricsRecorder.
func (m *MockMetricsRecorder) RecordReportSigned(algorithm string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportsSigned = append(m.reportsSigned, algorithm)
}

// RecordVerification implements MetricsRecorder.
func (m *MockMetricsRecorder) RecordVerification(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, outcome)
}

// RecordReportStored implements MetricsRecorder.
func (m *MockMetricsRecorder) RecordReportStored(sizeBytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storedBytes = append(m.storedBytes, sizeBytes)
}

// RecordPublish implements MetricsRecorder.
func (m *MockMetricsRecorder) RecordPublish(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishes = append(m.publishes, outcome)
}

// Verifications returns a copy of the recorded verification outcomes.
func (m *MockMetricsRecorder) Verifications() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.verifications))
	copy(out, m.verifications)
	return out
}

// TestMockMetricsRecorder_Implements verifies the mock satisfies the port.
func TestMockMetricsRecorder_Implements(t *testing.T) {
	var _ MetricsRecorder = (*MockMetricsRecorder)(nil)
}
