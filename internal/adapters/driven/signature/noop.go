package signature

import (
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// NoopSigner is a pass-through signer for development/testing.
// It returns the input unchanged without signing.
type NoopSigner struct{}

// NewNoopSigner creates a new NoopSigner.
func NewNoopSigner() *NoopSigner {
	return &NoopSigner{}
}

// Sign returns the input unchanged without signing.
func (s *NoopSigner) Sign(data []byte) ([]byte, error) {
	return data, nil
}

// NoopVerifier is a pass-through verifier for development/testing.
// It returns the input unchanged without verification.
type NoopVerifier struct{}

// NewNoopVerifier creates a new NoopVerifier.
func NewNoopVerifier() *NoopVerifier {
	return &NoopVerifier{}
}

// Verify returns the input unchanged without verification.
func (v *NoopVerifier) Verify(data []byte, _ ports.SigningMaterial) ([]byte, error) {
	return data, nil
}

// HasSignature always reports false without parsing.
func (v *NoopVerifier) HasSignature(_ []byte) (bool, error) {
	return false, nil
}

// Ensure implementations satisfy interfaces
var _ ports.ReportSigner = (*NoopSigner)(nil)
var _ ports.SignatureVerifier = (*NoopVerifier)(nil)
