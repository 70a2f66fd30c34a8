package canonical

import "go.uber.org/zap"

// Option is a functional option for configuring canonicalizers.
type Option func(*options)

type options struct {
	maxDocumentSize int64
	logger          *zap.Logger
}

func defaultOptions() options {
	return options{
		maxDocumentSize: DefaultMaxDocumentSize,
	}
}

// WithMaxDocumentSize returns an option that bounds the size of documents
// the canonicalizer will parse. Zero or negative disables the bound.
func WithMaxDocumentSize(n int64) Option {
	return func(o *options) {
		o.maxDocumentSize = n
	}
}

// WithLogger returns an option that sets the logger for the canonicalizer.
// When set, canonicalization results are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
