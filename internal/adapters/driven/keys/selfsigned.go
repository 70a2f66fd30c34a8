package keys

import (
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// DefaultSubjectCN is the certificate subject used when the caller does not
// provide one.
const DefaultSubjectCN = "jux report signing"

// DefaultDaysValid is the self-signed certificate lifetime in days.
const DefaultDaysValid = 365

// CertOption is a functional option for configuring certificate generation.
type CertOption func(*certOptions)

type certOptions struct {
	subject   string
	daysValid int
	clock     clockwork.Clock
}

// WithSubject returns an option that sets the certificate subject common
// name. A leading "CN=" is accepted and stripped.
func WithSubject(subject string) CertOption {
	return func(o *certOptions) {
		o.subject = subject
	}
}

// WithDaysValid returns an option that sets the certificate lifetime in days.
func WithDaysValid(days int) CertOption {
	return func(o *certOptions) {
		o.daysValid = days
	}
}

// WithClock returns an option that sets a custom clock for the validity
// window. Used for testing expiry behavior without waiting.
func WithClock(clock clockwork.Clock) CertOption {
	return func(o *certOptions) {
		o.clock = clock
	}
}

// GenerateSelfSignedCert issues a self-signed signing certificate for key.
// The validity window runs from now to now plus the configured lifetime,
// and the certificate is marked for digital signature use only.
func GenerateSelfSignedCert(key crypto.Signer, opts ...CertOption) (*x509.Certificate, error) {
	o := certOptions{
		subject:   DefaultSubjectCN,
		daysValid: DefaultDaysValid,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.daysValid <= 0 {
		return nil, domain.UsageError("certificate lifetime must be at least one day")
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, domain.UnsupportedKeyTypeError("failed to generate certificate serial: " + err.Error())
	}

	now := o.clock.Now().UTC()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: strings.TrimPrefix(o.subject, "CN="),
		},
		NotBefore:             now,
		NotAfter:              now.Add(time.Duration(o.daysValid) * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		return nil, domain.UnsupportedKeyTypeError("failed to create certificate: " + err.Error())
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, domain.ParseError("failed to parse generated certificate", err)
	}
	return cert, nil
}
