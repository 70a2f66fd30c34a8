package ports

import (
	"crypto"
	"crypto/x509"
)

// SigningMaterial is the trust input for a verification: either a
// certificate or a bare public key. It is a closed set; the verifier
// switches on the concrete type instead of probing arbitrary values.
type SigningMaterial interface {
	isSigningMaterial()
}

// CertificateMaterial verifies against an X.509 certificate. The embedded
// certificate (if any) must match, and the certificate's validity window
// is checked.
type CertificateMaterial struct {
	Certificate *x509.Certificate
}

func (CertificateMaterial) isSigningMaterial() {}

// PublicKeyMaterial verifies against a bare public key (*rsa.PublicKey or
// *ecdsa.PublicKey) with no certificate semantics.
type PublicKeyMaterial struct {
	PublicKey crypto.PublicKey
}

func (PublicKeyMaterial) isSigningMaterial() {}

// ReportSigner signs XML test reports.
// This is a port interface - implementations are adapters.
type ReportSigner interface {
	// Sign adds an enveloped XML signature to the report and returns
	// the signed XML bytes.
	Sign(data []byte) ([]byte, error)
}

// SignatureVerifier verifies XML signatures on test reports.
// This is a port interface - implementations are adapters.
//
// Verify returns the validated bytes, not just an error: callers must
// process the re-serialized validated element, never the original input,
// or a wrapped signature could smuggle unvalidated content past them.
type SignatureVerifier interface {
	// Verify validates the signature on data against the supplied material
	// and returns the validated XML bytes. A document without a signature
	// fails with a distinguished "no signature" error, never a generic
	// failure.
	Verify(data []byte, material SigningMaterial) ([]byte, error)

	// HasSignature reports whether data carries a signature element,
	// without verifying it.
	HasSignature(data []byte) (bool, error)
}
