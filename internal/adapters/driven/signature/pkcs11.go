//go:build cgo

package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/miekg/pkcs11"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// HSMConfig locates a signing key on a PKCS#11 token.
type HSMConfig struct {
	// ModulePath is the PKCS#11 shared library, e.g. /usr/lib/softhsm/libsofthsm2.so.
	ModulePath string

	// PIN authenticates the user session.
	PIN string

	// Slot is the index into the token's slot list.
	Slot uint

	// KeyLabel restricts the key search to objects with a matching CKA_LABEL.
	// Empty means take the first private key on the token.
	KeyLabel string
}

// HSMSigner is a crypto.Signer backed by an RSA key on a PKCS#11 token. The
// private key never leaves the token; Sign sends the digest to the token
// wrapped in a DigestInfo structure and signs with the raw CKM_RSA_PKCS
// mechanism, which matches what crypto.Signer callers expect: they hash,
// the token only pads and encrypts.
type HSMSigner struct {
	ctx     *pkcs11.Ctx
	session pkcs11.SessionHandle
	key     pkcs11.ObjectHandle
	public  *rsa.PublicKey
	cert    *x509.Certificate
}

// digestInfoPrefixes are the DER DigestInfo headers prepended to a raw hash
// before PKCS#1 v1.5 signing, per RFC 8017.
var digestInfoPrefixes = map[crypto.Hash][]byte{
	crypto.SHA256: {0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
	crypto.SHA384: {0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
	crypto.SHA512: {0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
}

// NewHSMSigner opens a session on the configured token, logs in, and
// locates the signing key, its public half, and its certificate if the
// token holds one. Callers must Close the signer when done.
func NewHSMSigner(cfg HSMConfig) (*HSMSigner, error) {
	ctx := pkcs11.New(cfg.ModulePath)
	if ctx == nil {
		return nil, domain.SigningError(fmt.Sprintf("pkcs11 module %q could not be loaded", cfg.ModulePath), nil)
	}
	if err := ctx.Initialize(); err != nil {
		return nil, domain.SigningError("pkcs11 initialization failed", err)
	}

	s := &HSMSigner{ctx: ctx}
	if err := s.openSession(cfg); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.findKey(cfg.KeyLabel); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Public returns the RSA public key matching the token's private key.
func (s *HSMSigner) Public() crypto.PublicKey {
	return s.public
}

// Sign signs an already-computed digest on the token. The digest length
// must match opts.HashFunc(), mirroring crypto/rsa.SignPKCS1v15.
func (s *HSMSigner) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	hash := opts.HashFunc()
	prefix, ok := digestInfoPrefixes[hash]
	if !ok {
		return nil, domain.SigningError(fmt.Sprintf("pkcs11 signing does not support hash %v", hash), nil)
	}
	if len(digest) != hash.Size() {
		return nil, domain.SigningError(fmt.Sprintf(
			"digest length %d does not match %v", len(digest), hash), nil)
	}

	err := s.ctx.SignInit(s.session, []*pkcs11.Mechanism{
		pkcs11.NewMechanism(pkcs11.CKM_RSA_PKCS, nil),
	}, s.key)
	if err != nil {
		return nil, domain.SigningError("pkcs11 sign init failed", err)
	}

	signature, err := s.ctx.Sign(s.session, append(append([]byte{}, prefix...), digest...))
	if err != nil {
		return nil, domain.SigningError("pkcs11 sign failed", err)
	}
	return signature, nil
}

// Certificate returns the certificate stored alongside the key, or nil when
// the token holds none.
func (s *HSMSigner) Certificate() *x509.Certificate {
	return s.cert
}

// Close releases the token session. The signer is unusable afterwards.
func (s *HSMSigner) Close() error {
	if s.ctx == nil {
		return nil
	}
	var errs []error
	if s.session != 0 {
		if err := s.ctx.CloseSession(s.session); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.ctx.Finalize(); err != nil {
		errs = append(errs, err)
	}
	s.ctx.Destroy()
	s.ctx = nil
	return errors.Join(errs...)
}

func (s *HSMSigner) openSession(cfg HSMConfig) error {
	slots, err := s.ctx.GetSlotList(true)
	if err != nil {
		return domain.SigningError("pkcs11 slot list failed", err)
	}
	if int(cfg.Slot) >= len(slots) {
		return domain.SigningError(fmt.Sprintf("pkcs11 slot %d does not exist: token has %d slots", cfg.Slot, len(slots)), nil)
	}

	session, err := s.ctx.OpenSession(slots[cfg.Slot], pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return domain.SigningError("pkcs11 open session failed", err)
	}
	s.session = session

	if err := s.ctx.Login(session, pkcs11.CKU_USER, cfg.PIN); err != nil {
		return domain.SigningError("pkcs11 login failed", err)
	}
	return nil
}

func (s *HSMSigner) findKey(label string) error {
	keyTemplate := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PRIVATE_KEY),
	}
	if label != "" {
		keyTemplate = append(keyTemplate, pkcs11.NewAttribute(pkcs11.CKA_LABEL, label))
	}
	keys, err := s.findObjects(keyTemplate, 1)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return domain.SigningError("no private key found on token", nil)
	}
	s.key = keys[0]

	pubTemplate := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PUBLIC_KEY),
	}
	if label != "" {
		pubTemplate = append(pubTemplate, pkcs11.NewAttribute(pkcs11.CKA_LABEL, label))
	}
	pubs, err := s.findObjects(pubTemplate, 1)
	if err != nil {
		return err
	}
	if len(pubs) == 0 {
		return domain.SigningError("no public key found on token", nil)
	}

	attrs, err := s.ctx.GetAttributeValue(s.session, pubs[0], []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_MODULUS, nil),
		pkcs11.NewAttribute(pkcs11.CKA_PUBLIC_EXPONENT, nil),
	})
	if err != nil {
		return domain.SigningError("reading public key attributes failed", err)
	}
	s.public = &rsa.PublicKey{
		N: new(big.Int).SetBytes(attrs[0].Value),
		E: int(new(big.Int).SetBytes(attrs[1].Value).Int64()),
	}

	// A certificate is optional on the token.
	certTemplate := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_CERTIFICATE),
	}
	if label != "" {
		certTemplate = append(certTemplate, pkcs11.NewAttribute(pkcs11.CKA_LABEL, label))
	}
	certObjs, err := s.findObjects(certTemplate, 1)
	if err != nil || len(certObjs) == 0 {
		return nil
	}
	certAttrs, err := s.ctx.GetAttributeValue(s.session, certObjs[0], []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_VALUE, nil),
	})
	if err != nil {
		return nil
	}
	if cert, err := x509.ParseCertificate(certAttrs[0].Value); err == nil {
		s.cert = cert
	}
	return nil
}

func (s *HSMSigner) findObjects(template []*pkcs11.Attribute, max int) ([]pkcs11.ObjectHandle, error) {
	if err := s.ctx.FindObjectsInit(s.session, template); err != nil {
		return nil, domain.SigningError("pkcs11 object search failed", err)
	}
	objects, _, err := s.ctx.FindObjects(s.session, max)
	if err != nil {
		return nil, domain.SigningError("pkcs11 object search failed", err)
	}
	if err := s.ctx.FindObjectsFinal(s.session); err != nil {
		return nil, domain.SigningError("pkcs11 object search failed", err)
	}
	return objects, nil
}

var _ crypto.Signer = (*HSMSigner)(nil)
