package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/metrics"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Re-export the metrics surface from the internal packages
type MetricsRecorder = ports.MetricsRecorder
type NoopMetricsRecorder = metrics.NoopMetricsRecorder
type PrometheusMetricsRecorder = metrics.PrometheusMetricsRecorder

var (
	NewNoopMetricsRecorder                   = metrics.NewNoopMetricsRecorder
	NewPrometheusMetricsRecorder             = metrics.NewPrometheusMetricsRecorder
	NewPrometheusMetricsRecorderWithRegistry = metrics.NewPrometheusMetricsRecorderWithRegistry
)
