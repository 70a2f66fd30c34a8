//go:build ignore

// sign-report generates pre-signed JUnit report files for unit tests.
// Run with: go run testdata/cmd/sign-report/main.go
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Files to sign (relative to testdata/).
var filesToSign = []string{
	"report-basic.xml",
	"report-mixed.xml",
}

func main() {
	// Find testdata directory (works when run from repo root)
	testdataDir := "testdata"
	if _, err := os.Stat(testdataDir); os.IsNotExist(err) {
		log.Fatalf("testdata directory not found; run from repo root")
	}

	// Load the signing key pair, generating it on first run. The PEM
	// files are not checked in; every checkout gets its own throwaway pair.
	key, cert, err := loadOrCreateKeyPair(testdataDir)
	if err != nil {
		log.Fatalf("signing key pair: %v", err)
	}

	// Create output directory
	signedDir := filepath.Join(testdataDir, "signed")
	if err := os.MkdirAll(signedDir, 0755); err != nil {
		log.Fatalf("create signed directory: %v", err)
	}

	// Sign each file
	for _, filename := range filesToSign {
		inputPath := filepath.Join(testdataDir, filename)
		outputPath := filepath.Join(signedDir, filename)

		if err := signFile(inputPath, outputPath, key, cert); err != nil {
			log.Fatalf("sign %s: %v", filename, err)
		}
		fmt.Printf("signed: %s -> %s\n", inputPath, outputPath)
	}

	fmt.Printf("\nGenerated %d signed report files in %s/\n", len(filesToSign), signedDir)
}

func signFile(inputPath, outputPath string, key *rsa.PrivateKey, cert *x509.Certificate) error {
	// Read input
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	// Parse XML
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty XML document")
	}

	// Create signing context
	tlsCert := tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
	}
	keyStore := dsig.TLSCertKeyStore(tlsCert)
	signingContext := dsig.NewDefaultSigningContext(keyStore)
	signingContext.Canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")

	// Sign
	signedRoot, err := signingContext.SignEnveloped(root)
	if err != nil {
		return fmt.Errorf("sign XML: %w", err)
	}
	doc.SetRoot(signedRoot)

	// Write output
	signedBytes, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	if err := os.WriteFile(outputPath, signedBytes, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func loadOrCreateKeyPair(testdataDir string) (*rsa.PrivateKey, *x509.Certificate, error) {
	keyPath := filepath.Join(testdataDir, "signer-key.pem")
	certPath := filepath.Join(testdataDir, "signer-cert.pem")

	if _, err := os.Stat(keyPath); err == nil {
		key, err := loadPrivateKey(keyPath)
		if err != nil {
			return nil, nil, err
		}
		cert, err := loadCertificate(certPath)
		if err != nil {
			return nil, nil, err
		}
		return key, cert, nil
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "jux testdata signer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().AddDate(10, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return nil, nil, fmt.Errorf("write key: %w", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return nil, nil, fmt.Errorf("write certificate: %w", err)
	}

	fmt.Printf("generated signing key pair: %s, %s\n", keyPath, certPath)
	return key, cert, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	// Try PKCS8 first, then PKCS1
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		return rsaKey, nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not RSA")
	}
	return rsaKey, nil
}

func loadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	return x509.ParseCertificate(block.Bytes)
}
