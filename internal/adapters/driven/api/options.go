package api

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
)

// Option configures a Client.
type Option func(*options)

type options struct {
	token       string
	httpClient  *http.Client
	timeout     time.Duration
	maxAttempts int
	backoff     time.Duration
	clock       clockwork.Clock
	logger      *zap.Logger
	metrics     ports.MetricsRecorder
}

func defaultClientOptions() options {
	return options{
		timeout:     defaultTimeout,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		clock:       clockwork.NewRealClock(),
	}
}

// WithBearerToken sets the Authorization bearer token.
func WithBearerToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithHTTPClient sets the underlying HTTP client. The client's own
// timeout then applies instead of WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithMaxAttempts sets how many times a submission is tried in total.
// Only server errors and network failures are retried.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithRetryBackoff sets the base delay between attempts.
func WithRetryBackoff(backoff time.Duration) Option {
	return func(o *options) {
		o.backoff = backoff
	}
}

// WithClock sets the clock used for the bearer token expiry check.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger for publish diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsRecorder sets the metrics recorder for publish outcomes.
func WithMetricsRecorder(m ports.MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}
