package keys

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/youmark/pkcs8"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// LoadKey loads an unencrypted private key from a PEM file. It accepts
// PKCS#8 "PRIVATE KEY" blocks and, for interoperability with keys produced
// by other tools, the legacy "RSA PRIVATE KEY" and "EC PRIVATE KEY" forms.
func LoadKey(path string) (crypto.Signer, error) {
	return LoadKeyWithPassphrase(path, nil)
}

// LoadKeyWithPassphrase loads a private key from a PEM file, decrypting
// "ENCRYPTED PRIVATE KEY" blocks with passphrase. A nil passphrase loads
// only unencrypted keys.
func LoadKeyWithPassphrase(path string, passphrase []byte) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileAccessError(fmt.Sprintf("failed to read key file %s", path), err)
	}

	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		switch block.Type {
		case "PRIVATE KEY":
			parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, domain.ParseError(fmt.Sprintf("invalid PKCS#8 key in %s", path), err)
			}
			return asSigner(parsed)
		case "ENCRYPTED PRIVATE KEY":
			if len(passphrase) == 0 {
				return nil, domain.ParseError(
					fmt.Sprintf("key file %s is encrypted: a passphrase is required", path), nil)
			}
			parsed, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, passphrase)
			if err != nil {
				return nil, domain.ParseError(
					fmt.Sprintf("failed to decrypt key in %s (wrong passphrase?)", path), err)
			}
			return asSigner(parsed)
		case "RSA PRIVATE KEY":
			parsed, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, domain.ParseError(fmt.Sprintf("invalid PKCS#1 key in %s", path), err)
			}
			return parsed, nil
		case "EC PRIVATE KEY":
			parsed, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, domain.ParseError(fmt.Sprintf("invalid EC key in %s", path), err)
			}
			return parsed, nil
		}
	}
	return nil, domain.ParseError(fmt.Sprintf("no private key found in %s", path), nil)
}

func asSigner(key any) (crypto.Signer, error) {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, domain.UnsupportedKeyTypeError(fmt.Sprintf("key type %T cannot sign", key))
	}
	return signer, nil
}

// KeyIsEncrypted reports whether the first private key block in the PEM
// file needs a passphrase. Callers use it to decide whether to prompt
// before loading.
func KeyIsEncrypted(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, domain.FileAccessError(fmt.Sprintf("failed to read key file %s", path), err)
	}
	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		switch block.Type {
		case "ENCRYPTED PRIVATE KEY":
			return true, nil
		case "PRIVATE KEY", "RSA PRIVATE KEY", "EC PRIVATE KEY":
			return false, nil
		}
	}
	return false, nil
}

// LoadPublicKey loads a PKIX "PUBLIC KEY" block from a PEM file. The
// result is an *rsa.PublicKey or *ecdsa.PublicKey suitable for
// signature verification without certificate semantics.
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileAccessError(fmt.Sprintf("failed to read public key file %s", path), err)
	}

	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != "PUBLIC KEY" {
			continue
		}
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, domain.ParseError(fmt.Sprintf("invalid public key in %s", path), err)
		}
		return parsed, nil
	}
	return nil, domain.ParseError(fmt.Sprintf("no public key found in %s", path), nil)
}

// LoadCertificate loads the first X.509 certificate from a PEM file.
func LoadCertificate(path string) (*x509.Certificate, error) {
	certs, err := LoadCertificates(path)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// LoadCertificates loads all X.509 certificates from a PEM file.
// Supports multiple certificates in a single file for rotation scenarios.
func LoadCertificates(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileAccessError(fmt.Sprintf("failed to read certificate file %s", path), err)
	}

	var certs []*x509.Certificate
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, domain.ParseError(fmt.Sprintf("invalid certificate in %s", path), err)
			}
			certs = append(certs, cert)
		}
		data = rest
	}

	if len(certs) == 0 {
		return nil, domain.ParseError(fmt.Sprintf("no certificates found in %s", path), nil)
	}
	return certs, nil
}
