package storage

import (
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Option configures a FileReportStore.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics ports.MetricsRecorder
}

// WithLogger sets the logger for storage operations.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsRecorder sets the metrics recorder for storage operations.
func WithMetricsRecorder(m ports.MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}
