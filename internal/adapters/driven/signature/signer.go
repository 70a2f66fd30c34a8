package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/russellhaering/goxmldsig/etreeutils"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/keys"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// XMLDsigSigner produces enveloped XML digital signatures over JUnit
// reports. The Signature element is appended as the last child of the
// document root, SignedInfo is canonicalized with exclusive C14N 1.0, and
// the signature method follows the key type: RSA keys sign with RSA-SHA256,
// ECDSA keys with ECDSA-SHA256.
type XMLDsigSigner struct {
	key       crypto.Signer
	cert      *x509.Certificate
	algorithm string
	maxSize   int64
	logger    *zap.Logger
	metrics   ports.MetricsRecorder
}

// NewXMLDsigSigner creates a signer for the given private key. With
// WithSignerCertificate the signature embeds the certificate in KeyInfo;
// without it the bare public key is embedded as a KeyValue so the document
// stays verifiable on its own.
func NewXMLDsigSigner(key crypto.Signer, opts ...SignerOption) (*XMLDsigSigner, error) {
	if key == nil {
		return nil, domain.SigningError("signing key is nil", nil)
	}

	options := defaultSignerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	var algorithm string
	switch key.Public().(type) {
	case *rsa.PublicKey:
		algorithm = "rsa"
	case *ecdsa.PublicKey:
		algorithm = "ecdsa"
	default:
		return nil, domain.UnsupportedKeyTypeError(
			fmt.Sprintf("cannot sign with %T: only RSA and ECDSA keys are supported", key.Public()))
	}

	if options.certificate != nil && !certificateMatchesKey(options.certificate, key) {
		return nil, domain.SigningError("certificate public key does not match the signing key", nil)
	}

	return &XMLDsigSigner{
		key:       key,
		cert:      options.certificate,
		algorithm: algorithm,
		maxSize:   options.maxDocumentSize,
		logger:    options.logger,
		metrics:   options.metrics,
	}, nil
}

// Sign parses data, appends an enveloped signature to its root element and
// returns the serialized signed document. Already-signed input is rejected
// rather than double-signed.
func (s *XMLDsigSigner) Sign(data []byte) ([]byte, error) {
	doc, err := canonical.LoadDocument(data, s.maxSize)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	existing, err := findSignatureElement(root)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.SigningError("document already contains a signature", nil)
	}

	sigCtx, err := s.signingContext()
	if err != nil {
		return nil, err
	}

	signedRoot, err := sigCtx.SignEnveloped(root)
	if err != nil {
		return nil, domain.SigningError("enveloped signing failed", err)
	}

	if s.cert == nil {
		if err := s.embedPublicKey(signedRoot, sigCtx.Prefix); err != nil {
			return nil, err
		}
	}

	signedDoc := etree.NewDocument()
	signedDoc.SetRoot(signedRoot)
	out, err := signedDoc.WriteToBytes()
	if err != nil {
		return nil, domain.SigningError("serializing signed document failed", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReportSigned(s.algorithm)
	}
	if s.logger != nil {
		s.logger.Debug("report signed",
			zap.String("algorithm", s.algorithm),
			zap.Bool("certificate_embedded", s.cert != nil),
			zap.Int("signed_bytes", len(out)))
	}
	return out, nil
}

// signingContext builds a goxmldsig context with exclusive C14N. The
// library constructs KeyInfo from a certificate chain, so key-only signing
// passes a short-lived throwaway certificate whose KeyInfo entry is
// replaced after signing.
func (s *XMLDsigSigner) signingContext() (*dsig.SigningContext, error) {
	cert := s.cert
	if cert == nil {
		ephemeral, err := keys.GenerateSelfSignedCert(s.key, keys.WithDaysValid(1))
		if err != nil {
			return nil, domain.SigningError("generating throwaway certificate failed", err)
		}
		cert = ephemeral
	}

	sigCtx, err := dsig.NewSigningContext(s.key, [][]byte{cert.Raw})
	if err != nil {
		return nil, domain.SigningError("creating signing context failed", err)
	}
	sigCtx.Canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")
	return sigCtx, nil
}

// embedPublicKey rewrites the signature's KeyInfo to carry the signer's
// public key as a KeyValue instead of a certificate.
func (s *XMLDsigSigner) embedPublicKey(signedRoot *etree.Element, prefix string) error {
	sigEl, err := findSignatureElement(signedRoot)
	if err != nil {
		return err
	}
	if sigEl == nil {
		return domain.SigningError("signed document is missing its signature element", nil)
	}
	keyInfo, err := newKeyValueElement(s.key.Public(), prefix)
	if err != nil {
		return err
	}
	replaceKeyInfo(sigEl, keyInfo)
	return nil
}

func certificateMatchesKey(cert *x509.Certificate, key crypto.Signer) bool {
	type equaler interface {
		Equal(crypto.PublicKey) bool
	}
	pub, ok := cert.PublicKey.(equaler)
	return ok && pub.Equal(key.Public())
}

// findSignatureElement locates the first Signature element in the xmldsig
// namespace anywhere under root, or nil when the document is unsigned.
func findSignatureElement(root *etree.Element) (*etree.Element, error) {
	var sigEl *etree.Element
	err := etreeutils.NSFindIterate(root, dsig.Namespace, dsig.SignatureTag,
		func(ctx etreeutils.NSContext, el *etree.Element) error {
			sigEl = el
			return etreeutils.ErrTraversalHalted
		})
	if err != nil {
		return nil, domain.ParseError("scanning for signature element failed", err)
	}
	return sigEl, nil
}

var _ ports.ReportSigner = (*XMLDsigSigner)(nil)
