// Package keys generates, serializes, and loads the signing material used
// for test report signatures: RSA and ECDSA private keys in PKCS#8 PEM form
// and self-signed X.509 certificates.
package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// Defaults applied by callers that let the user omit key parameters.
const (
	DefaultRSABits = 2048
	DefaultCurve   = "P-256"
)

var supportedRSABits = map[int]bool{
	2048: true,
	3072: true,
	4096: true,
}

var supportedCurves = map[string]elliptic.Curve{
	"P-256": elliptic.P256(),
	"P-384": elliptic.P384(),
	"P-521": elliptic.P521(),
}

// GenerateRSAKey generates an RSA private key of 2048, 3072, or 4096 bits.
// The public exponent is always 65537. Any other size fails before any
// cryptographic work starts.
func GenerateRSAKey(bits int) (*rsa.PrivateKey, error) {
	if !supportedRSABits[bits] {
		return nil, domain.InvalidKeySizeError(bits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, domain.UnsupportedKeyTypeError("RSA key generation failed: " + err.Error())
	}
	return key, nil
}

// GenerateECDSAKey generates an ECDSA private key on the named NIST curve:
// P-256, P-384, or P-521.
func GenerateECDSAKey(curve string) (*ecdsa.PrivateKey, error) {
	c, ok := supportedCurves[curve]
	if !ok {
		return nil, domain.UnsupportedCurveError(curve)
	}
	key, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		return nil, domain.UnsupportedKeyTypeError("ECDSA key generation failed: " + err.Error())
	}
	return key, nil
}

// SupportedRSABits lists the accepted RSA key sizes.
func SupportedRSABits() []int {
	return []int{2048, 3072, 4096}
}

// SupportedCurves lists the accepted ECDSA curve names.
func SupportedCurves() []string {
	return []string{"P-256", "P-384", "P-521"}
}
