package signature

import (
	"crypto/x509"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// SignerOption configures an XMLDsigSigner.
type SignerOption func(*signerOptions)

type signerOptions struct {
	certificate     *x509.Certificate
	maxDocumentSize int64
	logger          *zap.Logger
	metrics         ports.MetricsRecorder
}

func defaultSignerOptions() signerOptions {
	return signerOptions{
		maxDocumentSize: canonical.DefaultMaxDocumentSize,
	}
}

// WithSignerCertificate embeds the given certificate in the signature's
// KeyInfo element. Without a certificate the signer embeds the bare public
// key as a KeyValue element instead.
func WithSignerCertificate(cert *x509.Certificate) SignerOption {
	return func(o *signerOptions) {
		o.certificate = cert
	}
}

// WithSignerMaxDocumentSize overrides the maximum accepted document size.
func WithSignerMaxDocumentSize(n int64) SignerOption {
	return func(o *signerOptions) {
		o.maxDocumentSize = n
	}
}

// WithSignerLogger sets the logger for signing operations.
func WithSignerLogger(logger *zap.Logger) SignerOption {
	return func(o *signerOptions) {
		o.logger = logger
	}
}

// WithSignerMetrics sets the metrics recorder for signing operations.
func WithSignerMetrics(m ports.MetricsRecorder) SignerOption {
	return func(o *signerOptions) {
		o.metrics = m
	}
}

// VerifierOption configures an XMLDsigVerifier.
type VerifierOption func(*verifierOptions)

type verifierOptions struct {
	policy          domain.AlgorithmPolicy
	clock           clockwork.Clock
	maxDocumentSize int64
	logger          *zap.Logger
	metrics         ports.MetricsRecorder
}

func defaultVerifierOptions() verifierOptions {
	return verifierOptions{
		policy:          domain.DefaultAlgorithmPolicy(),
		clock:           clockwork.NewRealClock(),
		maxDocumentSize: canonical.DefaultMaxDocumentSize,
	}
}

// WithPolicy replaces the default algorithm policy. The policy is consulted
// before any cryptographic work; signatures declaring algorithms outside it
// are rejected.
func WithPolicy(policy domain.AlgorithmPolicy) VerifierOption {
	return func(o *verifierOptions) {
		o.policy = policy
	}
}

// WithClock sets the clock used for certificate validity checks. Tests use
// a fake clock to verify against fixtures with expired certificates.
func WithClock(clock clockwork.Clock) VerifierOption {
	return func(o *verifierOptions) {
		o.clock = clock
	}
}

// WithVerifierMaxDocumentSize overrides the maximum accepted document size.
func WithVerifierMaxDocumentSize(n int64) VerifierOption {
	return func(o *verifierOptions) {
		o.maxDocumentSize = n
	}
}

// WithVerifierLogger sets the logger for verification operations.
func WithVerifierLogger(logger *zap.Logger) VerifierOption {
	return func(o *verifierOptions) {
		o.logger = logger
	}
}

// WithVerifierMetrics sets the metrics recorder for verification operations.
func WithVerifierMetrics(m ports.MetricsRecorder) VerifierOption {
	return func(o *verifierOptions) {
		o.metrics = m
	}
}
