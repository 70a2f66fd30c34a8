package signature

import (
	"crypto/x509"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// Inspect reports what a signed document declares about its signature
// without verifying anything: the algorithm URIs and, when a certificate is
// embedded in KeyInfo, its subject and expiry. An unsigned document yields
// a zero SignatureInfo with Present false.
func (v *XMLDsigVerifier) Inspect(data []byte) (domain.SignatureInfo, error) {
	var info domain.SignatureInfo

	doc, err := canonical.LoadDocument(data, v.maxSize)
	if err != nil {
		return info, err
	}
	sigEl, err := findSignatureElement(doc.Root())
	if err != nil {
		return info, err
	}
	if sigEl == nil {
		return info, nil
	}
	info.Present = true

	shape, err := parseSignatureShape(sigEl)
	if err != nil {
		return info, err
	}
	info.CanonicalizationMethod = shape.c14nMethod
	info.SignatureMethod = shape.signatureMethod
	info.DigestMethod = shape.digestMethod

	if cert := embeddedCertificate(sigEl); cert != nil {
		info.CertificateSubject = cert.Subject.String()
		notAfter := cert.NotAfter.UTC()
		info.CertificateNotAfter = &notAfter
	}
	return info, nil
}

// embeddedCertificate extracts the first X509Certificate from KeyInfo, or
// nil when the signature has none or it does not parse.
func embeddedCertificate(sigEl *etree.Element) *x509.Certificate {
	keyInfo := childByTag(sigEl, dsig.KeyInfoTag)
	if keyInfo == nil {
		return nil
	}
	x509Data := childByTag(keyInfo, dsig.X509DataTag)
	if x509Data == nil {
		return nil
	}
	certEl := childByTag(x509Data, dsig.X509CertificateTag)
	if certEl == nil {
		return nil
	}
	der, err := decodeBase64Text(certEl, "X509Certificate")
	if err != nil {
		return nil
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil
	}
	return cert
}
