package keys

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/youmark/pkcs8"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// SaveKey writes key to path as an unencrypted PKCS#8 "PRIVATE KEY" PEM
// block. Parent directories are created as needed (mode 0700). The file is
// written with mode 0600 from its first byte: content goes to a temp file
// that is created owner-only, then renamed over path, so an existing file
// with looser permissions is replaced rather than reused.
func SaveKey(key crypto.Signer, path string) error {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return domain.UnsupportedKeyTypeError("cannot serialize private key: " + err.Error())
	}
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	return writeOwnerOnly(path, pem.EncodeToMemory(block))
}

// SaveKeyEncrypted writes key to path as an "ENCRYPTED PRIVATE KEY" PEM
// block, encrypted under passphrase with the PKCS#8 defaults (AES-256-CBC,
// PBKDF2). Permission handling matches SaveKey.
func SaveKeyEncrypted(key crypto.Signer, path string, passphrase []byte) error {
	if len(passphrase) == 0 {
		return domain.UsageError("an empty passphrase cannot encrypt a private key")
	}
	der, err := pkcs8.MarshalPrivateKey(key, passphrase, pkcs8.DefaultOpts)
	if err != nil {
		return domain.UnsupportedKeyTypeError("cannot encrypt private key: " + err.Error())
	}
	block := &pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: der}
	return writeOwnerOnly(path, pem.EncodeToMemory(block))
}

// SavePublicKey writes the public half of key to path as a PKIX
// "PUBLIC KEY" PEM block with mode 0644. Parent directories are created
// as needed.
func SavePublicKey(key crypto.Signer, path string) error {
	der, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		return domain.UnsupportedKeyTypeError("cannot serialize public key: " + err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return domain.FileAccessError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o644); err != nil {
		return domain.FileAccessError(fmt.Sprintf("failed to write public key %s", path), err)
	}
	return nil
}

// SaveCertificate writes cert to path as a "CERTIFICATE" PEM block with
// mode 0644. Parent directories are created as needed.
func SaveCertificate(cert *x509.Certificate, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return domain.FileAccessError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	block := &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o644); err != nil {
		return domain.FileAccessError(fmt.Sprintf("failed to write certificate %s", path), err)
	}
	return nil
}

// writeOwnerOnly writes data to path with mode 0600 held from creation.
// os.CreateTemp creates the staging file with mode 0600, so the key bytes
// never exist on disk with wider permissions, and the final rename is
// atomic on POSIX filesystems.
func writeOwnerOnly(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return domain.FileAccessError(fmt.Sprintf("failed to create directory %s", dir), err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return domain.FileAccessError(fmt.Sprintf("failed to create temp file in %s", dir), err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.FileAccessError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.FileAccessError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return domain.FileAccessError(fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}
