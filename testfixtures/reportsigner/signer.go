// Package reportsigner provides a signed JUnit report generator for
// testing. It signs reports with the same goxmldsig library used by the
// production XMLDsigSigner, but through its own signing context, so
// verifier tests exercise the full verification path against an
// independent signer.
package reportsigner

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Signer signs JUnit report XML for testing.
type Signer struct {
	t           testing.TB
	privateKey  *rsa.PrivateKey
	certificate *x509.Certificate
}

// New creates a Signer with a throwaway RSA-2048 key and self-signed
// certificate.
func New(t testing.TB) *Signer {
	t.Helper()

	key, cert, err := generateSelfSignedCert()
	if err != nil {
		t.Fatalf("failed to generate signing certificate: %v", err)
	}

	return &Signer{
		t:           t,
		privateKey:  key,
		certificate: cert,
	}
}

// Key returns the signing key.
func (s *Signer) Key() *rsa.PrivateKey {
	return s.privateKey
}

// Certificate returns the signing certificate for verifier setup.
func (s *Signer) Certificate() *x509.Certificate {
	return s.certificate
}

// KeyPEM returns the signing key as unencrypted PKCS#8 PEM.
func (s *Signer) KeyPEM() []byte {
	der, err := x509.MarshalPKCS8PrivateKey(s.privateKey)
	if err != nil {
		s.t.Fatalf("failed to marshal signing key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// CertificatePEM returns the signing certificate as PEM.
func (s *Signer) CertificatePEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: s.certificate.Raw})
}

// Sign signs the given report XML and returns the signed bytes.
func (s *Signer) Sign(report []byte) ([]byte, error) {
	if len(report) == 0 {
		return nil, errors.New("empty report")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(report); err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty XML document")
	}

	tlsCert := tls.Certificate{
		Certificate: [][]byte{s.certificate.Raw},
		PrivateKey:  s.privateKey,
	}
	signingContext := dsig.NewDefaultSigningContext(dsig.TLSCertKeyStore(tlsCert))
	signingContext.Canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")

	signedRoot, err := signingContext.SignEnveloped(root)
	if err != nil {
		return nil, fmt.Errorf("sign XML: %w", err)
	}
	doc.SetRoot(signedRoot)

	signedBytes, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize signed XML: %w", err)
	}
	return signedBytes, nil
}

// GenerateReport creates a minimal JUnit report with the given suite
// name and counts. The first `failures` cases carry failure elements.
func (s *Signer) GenerateReport(name string, tests, failures int) []byte {
	var cases bytes.Buffer
	for i := 0; i < tests; i++ {
		if i < failures {
			fmt.Fprintf(&cases, `    <testcase classname="%s" name="test_%d" time="0.010">
      <failure message="assertion failed">expected true, got false</failure>
    </testcase>
`, name, i)
			continue
		}
		fmt.Fprintf(&cases, `    <testcase classname="%s" name="test_%d" time="0.010"/>
`, name, i)
	}

	report := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<testsuites tests="%d" failures="%d" errors="0" skipped="0" time="%.3f">
  <testsuite name="%s" tests="%d" failures="%d" errors="0" skipped="0" time="%.3f">
%s  </testsuite>
</testsuites>
`, tests, failures, float64(tests)*0.01, name, tests, failures, float64(tests)*0.01, cases.String())

	return []byte(report)
}

// GenerateSignedReport creates and signs a report in one step.
func (s *Signer) GenerateSignedReport(name string, tests, failures int) ([]byte, error) {
	return s.Sign(s.GenerateReport(name, tests, failures))
}

// generateSelfSignedCert creates an RSA key pair and self-signed
// certificate valid for one hour.
func generateSelfSignedCert() (*rsa.PrivateKey, *x509.Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName:   "jux test signer",
			Organization: []string{"jux tests"},
		},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, fmt.Errorf("parse certificate: %w", err)
	}
	return key, cert, nil
}
