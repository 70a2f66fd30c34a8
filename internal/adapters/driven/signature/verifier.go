package signature

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jonboulle/clockwork"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/russellhaering/goxmldsig/etreeutils"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// XMLDsigVerifier checks enveloped XML digital signatures on JUnit reports.
//
// Certificate material delegates to goxmldsig's validation context, which
// re-canonicalizes the document and compares it against the embedded
// signature. Public key material runs an equivalent pipeline by hand,
// deliberately ignoring any key embedded in the document: trusting an
// attacker-supplied KeyValue would let anyone re-sign a tampered report.
//
// Either way the declared algorithms are checked against the policy before
// a single digest is computed.
type XMLDsigVerifier struct {
	policy  domain.AlgorithmPolicy
	clock   clockwork.Clock
	maxSize int64
	logger  *zap.Logger
	metrics ports.MetricsRecorder
}

// NewXMLDsigVerifier creates a verifier with the default algorithm policy.
func NewXMLDsigVerifier(opts ...VerifierOption) *XMLDsigVerifier {
	options := defaultVerifierOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &XMLDsigVerifier{
		policy:  options.policy,
		clock:   options.clock,
		maxSize: options.maxDocumentSize,
		logger:  options.logger,
		metrics: options.metrics,
	}
}

// HasSignature reports whether data contains a Signature element in the
// xmldsig namespace. Parse failures are reported as errors, not as absence.
func (v *XMLDsigVerifier) HasSignature(data []byte) (bool, error) {
	doc, err := canonical.LoadDocument(data, v.maxSize)
	if err != nil {
		return false, err
	}
	sigEl, err := findSignatureElement(doc.Root())
	if err != nil {
		return false, err
	}
	return sigEl != nil, nil
}

// Verify checks the signature on data against the given material and
// returns the serialized content that the signature actually covers.
// Callers that store or forward "verified" content must use the returned
// bytes, not the input: the input may carry extra elements outside the
// signed subtree.
func (v *XMLDsigVerifier) Verify(data []byte, material ports.SigningMaterial) ([]byte, error) {
	validated, err := v.verify(data, material)

	outcome := ""
	if err == nil {
		outcome = "valid"
	} else {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case domain.ErrCodeNoSignature:
				outcome = "no_signature"
			case domain.ErrCodeSignatureInvalid:
				outcome = "invalid"
			}
		}
	}
	if outcome != "" {
		if v.metrics != nil {
			v.metrics.RecordVerification(outcome)
		}
		if v.logger != nil {
			v.logger.Debug("verification finished", zap.String("outcome", outcome))
		}
	}
	return validated, err
}

func (v *XMLDsigVerifier) verify(data []byte, material ports.SigningMaterial) ([]byte, error) {
	doc, err := canonical.LoadDocument(data, v.maxSize)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	sigEl, err := findSignatureElement(root)
	if err != nil {
		return nil, err
	}
	if sigEl == nil {
		return nil, domain.NoSignatureError()
	}

	shape, err := parseSignatureShape(sigEl)
	if err != nil {
		return nil, err
	}
	if err := shape.checkPolicy(v.policy); err != nil {
		return nil, err
	}

	switch m := material.(type) {
	case ports.CertificateMaterial:
		return v.verifyWithCertificate(root, m.Certificate)
	case ports.PublicKeyMaterial:
		return v.verifyWithPublicKey(root, shape, m.PublicKey)
	case nil:
		return nil, domain.UsageError("verification requires a certificate or public key")
	default:
		return nil, domain.UnsupportedKeyTypeError(fmt.Sprintf("unsupported signing material %T", material))
	}
}

// verifyWithCertificate validates through goxmldsig with the certificate as
// the only trust root. The certificate's own validity window is checked
// first so an expired signer is reported as such instead of as a generic
// validation failure.
func (v *XMLDsigVerifier) verifyWithCertificate(root *etree.Element, cert *x509.Certificate) ([]byte, error) {
	if cert == nil {
		return nil, domain.UsageError("verification certificate is nil")
	}

	now := v.clock.Now()
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		return nil, domain.SignatureInvalidError(fmt.Sprintf(
			"certificate is not valid at verification time: valid %s to %s",
			cert.NotBefore.UTC().Format(time.RFC3339), cert.NotAfter.UTC().Format(time.RFC3339)), nil)
	}

	store := &dsig.MemoryX509CertificateStore{Roots: []*x509.Certificate{cert}}
	validationCtx := dsig.NewDefaultValidationContext(store)

	validated, err := validationCtx.Validate(root.Copy())
	if err != nil {
		if errors.Is(err, dsig.ErrMissingSignature) {
			return nil, domain.NoSignatureError()
		}
		return nil, domain.SignatureInvalidError("signature verification failed", err)
	}

	return serializeElement(validated)
}

// verifyWithPublicKey recomputes the reference digest and the SignedInfo
// signature from scratch using only the caller-provided key.
func (v *XMLDsigVerifier) verifyWithPublicKey(root *etree.Element, shape *signatureShape, pub crypto.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, domain.UsageError("verification public key is nil")
	}

	alg, ok := signatureAlgorithms[shape.signatureMethod]
	if !ok {
		return nil, domain.SignatureInvalidError(fmt.Sprintf(
			"signature method %q is not supported", shape.signatureMethod), nil)
	}

	switch pub.(type) {
	case *rsa.PublicKey:
		if alg.keyType != "rsa" {
			return nil, domain.SignatureInvalidError(fmt.Sprintf(
				"signature method %s does not match the RSA public key", alg.name), nil)
		}
	case *ecdsa.PublicKey:
		if alg.keyType != "ecdsa" {
			return nil, domain.SignatureInvalidError(fmt.Sprintf(
				"signature method %s does not match the ECDSA public key", alg.name), nil)
		}
	default:
		return nil, domain.UnsupportedKeyTypeError(
			fmt.Sprintf("cannot verify with %T: only RSA and ECDSA public keys are supported", pub))
	}

	transformed, err := v.applyReferenceTransforms(root, shape)
	if err != nil {
		return nil, err
	}
	refData, err := v.canonicalizeReference(transformed, shape)
	if err != nil {
		return nil, err
	}

	digestHash := digestAlgorithms[shape.digestMethod]
	hasher := digestHash.New()
	hasher.Write(refData)
	if !bytes.Equal(hasher.Sum(nil), shape.digestValue) {
		return nil, domain.SignatureInvalidError("reference digest mismatch: document content does not match its signature", nil)
	}

	canonicalSignedInfo, err := v.canonicalSignedInfo(shape)
	if err != nil {
		return nil, err
	}
	hasher = alg.hash.New()
	hasher.Write(canonicalSignedInfo)
	digest := hasher.Sum(nil)

	switch pub := pub.(type) {
	case *rsa.PublicKey:
		if err := rsa.VerifyPKCS1v15(pub, alg.hash, digest, shape.signatureValue); err != nil {
			return nil, domain.SignatureInvalidError("signature value does not verify with the provided RSA key", err)
		}
	case *ecdsa.PublicKey:
		if !ecdsa.VerifyASN1(pub, digest, shape.signatureValue) {
			return nil, domain.SignatureInvalidError("signature value does not verify with the provided ECDSA key", nil)
		}
	}

	return serializeElement(transformed)
}

// applyReferenceTransforms checks that the reference covers the document
// root and applies the enveloped-signature transform, returning a copy of
// root without its Signature element.
func (v *XMLDsigVerifier) applyReferenceTransforms(root *etree.Element, shape *signatureShape) (*etree.Element, error) {
	if uri := shape.referenceURI; uri != "" {
		idAttr := root.SelectAttrValue(dsig.DefaultIdAttr, "")
		if !strings.HasPrefix(uri, "#") || idAttr == "" || uri[1:] != idAttr {
			return nil, domain.SignatureInvalidError(fmt.Sprintf(
				"reference %q does not cover the document root", uri), nil)
		}
	}

	envelopedSeen := false
	for _, t := range shape.transforms {
		if t.uri == domain.TransformEnvelopedSignature {
			envelopedSeen = true
		}
	}
	if !envelopedSeen {
		return nil, domain.SignatureInvalidError("reference transforms do not include the enveloped-signature transform", nil)
	}

	transformed := root.Copy()
	sigInCopy, err := findSignatureElement(transformed)
	if err != nil {
		return nil, err
	}
	if sigInCopy == nil {
		return nil, domain.NoSignatureError()
	}
	parent := sigInCopy.Parent()
	if parent == nil {
		return nil, domain.SignatureInvalidError("signature element cannot be the document root", nil)
	}
	parent.RemoveChild(sigInCopy)
	return transformed, nil
}

// canonicalizeReference serializes the transformed document with the last
// canonicalization method named in the reference's transform chain. A chain
// naming none gets plain canonical serialization.
func (v *XMLDsigVerifier) canonicalizeReference(transformed *etree.Element, shape *signatureShape) ([]byte, error) {
	var c14nURI, prefixList string
	for _, t := range shape.transforms {
		if t.uri == domain.TransformEnvelopedSignature {
			continue
		}
		c14nURI = t.uri
		prefixList = t.prefixList
	}

	var canonicalizer dsig.Canonicalizer
	switch c14nURI {
	case "":
		canonicalizer = dsig.MakeNullCanonicalizer()
	case domain.CanonicalizationExcC14N:
		canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(prefixList)
	case domain.CanonicalizationExcC14NWithComments:
		canonicalizer = dsig.MakeC14N10ExclusiveWithCommentsCanonicalizerWithPrefixList(prefixList)
	default:
		c, ok := canonicalizerForURI(c14nURI)
		if !ok {
			return nil, domain.SignatureInvalidError(fmt.Sprintf(
				"canonicalization method %q is not supported", c14nURI), nil)
		}
		canonicalizer = c
	}

	data, err := canonicalizer.Canonicalize(transformed)
	if err != nil {
		return nil, domain.SignatureInvalidError("canonicalizing referenced content failed", err)
	}
	return data, nil
}

// canonicalSignedInfo detaches SignedInfo with its inherited namespace
// context and renders it with the declared canonicalization method. Only
// the exclusive methods are supported here; signatures canonicalized with
// inclusive C14N need the certificate path.
func (v *XMLDsigVerifier) canonicalSignedInfo(shape *signatureShape) ([]byte, error) {
	withComments := false
	switch shape.c14nMethod {
	case domain.CanonicalizationExcC14N:
	case domain.CanonicalizationExcC14NWithComments:
		withComments = true
	default:
		return nil, domain.SignatureInvalidError(fmt.Sprintf(
			"canonicalization method %q requires certificate-based verification", shape.c14nMethod), nil)
	}

	nsCtx, err := etreeutils.NSBuildParentContext(shape.sigEl)
	if err != nil {
		return nil, domain.SignatureInvalidError("resolving signature namespace context failed", err)
	}
	signedInfo, err := etreeutils.NSFindOneChildCtx(nsCtx, shape.sigEl, dsig.Namespace, dsig.SignedInfoTag)
	if err != nil || signedInfo == nil {
		return nil, domain.SignatureInvalidError("signature has no SignedInfo element", err)
	}
	sigCtx, err := nsCtx.SubContext(shape.sigEl)
	if err != nil {
		return nil, domain.SignatureInvalidError("resolving signature namespace context failed", err)
	}
	detached, err := etreeutils.NSDetatch(sigCtx, signedInfo)
	if err != nil {
		return nil, domain.SignatureInvalidError("detaching SignedInfo failed", err)
	}
	if err := etreeutils.TransformExcC14n(detached, shape.c14nPrefixList, withComments); err != nil {
		return nil, domain.SignatureInvalidError("canonicalizing SignedInfo failed", err)
	}
	return canonicalSerialize(detached)
}

// signatureShape carries the declared algorithms and decoded values of a
// Signature element, extracted up front so the policy can veto them before
// any digest or signature computation.
type signatureShape struct {
	sigEl           *etree.Element
	c14nMethod      string
	c14nPrefixList  string
	signatureMethod string
	signatureValue  []byte
	referenceURI    string
	transforms      []transformDecl
	digestMethod    string
	digestValue     []byte
}

type transformDecl struct {
	uri        string
	prefixList string
}

func parseSignatureShape(sigEl *etree.Element) (*signatureShape, error) {
	counts := map[string]int{}
	for _, child := range sigEl.ChildElements() {
		counts[child.Tag]++
	}
	if counts[dsig.SignedInfoTag] != 1 || counts[dsig.SignatureValueTag] != 1 || counts[dsig.KeyInfoTag] > 1 {
		return nil, domain.SignatureInvalidError("signature element has unexpected shape", nil)
	}

	shape := &signatureShape{sigEl: sigEl}
	signedInfo := childByTag(sigEl, dsig.SignedInfoTag)

	c14nEl := childByTag(signedInfo, dsig.CanonicalizationMethodTag)
	if c14nEl == nil {
		return nil, domain.SignatureInvalidError("signature has no CanonicalizationMethod", nil)
	}
	shape.c14nMethod = c14nEl.SelectAttrValue(dsig.AlgorithmAttr, "")
	if inclNS := childByTag(c14nEl, dsig.InclusiveNamespacesTag); inclNS != nil {
		shape.c14nPrefixList = inclNS.SelectAttrValue(dsig.PrefixListAttr, "")
	}

	sigMethodEl := childByTag(signedInfo, dsig.SignatureMethodTag)
	if sigMethodEl == nil {
		return nil, domain.SignatureInvalidError("signature has no SignatureMethod", nil)
	}
	shape.signatureMethod = sigMethodEl.SelectAttrValue(dsig.AlgorithmAttr, "")

	refs := childrenByTag(signedInfo, dsig.ReferenceTag)
	if len(refs) != 1 {
		return nil, domain.SignatureInvalidError(fmt.Sprintf(
			"expected one Reference in SignedInfo, found %d", len(refs)), nil)
	}
	ref := refs[0]
	shape.referenceURI = ref.SelectAttrValue(dsig.URIAttr, "")

	if transformsEl := childByTag(ref, dsig.TransformsTag); transformsEl != nil {
		for _, transformEl := range childrenByTag(transformsEl, dsig.TransformTag) {
			decl := transformDecl{uri: transformEl.SelectAttrValue(dsig.AlgorithmAttr, "")}
			if inclNS := childByTag(transformEl, dsig.InclusiveNamespacesTag); inclNS != nil {
				decl.prefixList = inclNS.SelectAttrValue(dsig.PrefixListAttr, "")
			}
			shape.transforms = append(shape.transforms, decl)
		}
	}

	digestMethodEl := childByTag(ref, dsig.DigestMethodTag)
	if digestMethodEl == nil {
		return nil, domain.SignatureInvalidError("reference has no DigestMethod", nil)
	}
	shape.digestMethod = digestMethodEl.SelectAttrValue(dsig.AlgorithmAttr, "")

	digestValueEl := childByTag(ref, dsig.DigestValueTag)
	if digestValueEl == nil {
		return nil, domain.SignatureInvalidError("reference has no DigestValue", nil)
	}
	digestValue, err := decodeBase64Text(digestValueEl, "DigestValue")
	if err != nil {
		return nil, err
	}
	shape.digestValue = digestValue

	signatureValue, err := decodeBase64Text(childByTag(sigEl, dsig.SignatureValueTag), "SignatureValue")
	if err != nil {
		return nil, err
	}
	shape.signatureValue = signatureValue

	return shape, nil
}

func (s *signatureShape) checkPolicy(policy domain.AlgorithmPolicy) error {
	if err := policy.CheckCanonicalization(s.c14nMethod); err != nil {
		return err
	}
	if err := policy.CheckSignatureMethod(s.signatureMethod); err != nil {
		return err
	}
	if err := policy.CheckDigestMethod(s.digestMethod); err != nil {
		return err
	}
	for _, t := range s.transforms {
		if err := policy.CheckTransform(t.uri); err != nil {
			return err
		}
	}
	return nil
}

func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func childrenByTag(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

func decodeBase64Text(el *etree.Element, what string) ([]byte, error) {
	text := strings.Join(strings.Fields(el.Text()), "")
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, domain.SignatureInvalidError(fmt.Sprintf("%s is not valid base64", what), err)
	}
	return decoded, nil
}

// canonicalSerialize renders an element with canonical text, attribute and
// end-tag settings, the serialization xmldsig expects for canonicalized
// subtrees.
func canonicalSerialize(el *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	doc.WriteSettings = etree.WriteSettings{
		CanonicalAttrVal: true,
		CanonicalEndTags: true,
		CanonicalText:    true,
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, domain.SignatureInvalidError("canonical serialization failed", err)
	}
	return out, nil
}

func serializeElement(el *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, domain.SignatureInvalidError("serializing verified content failed", err)
	}
	return out, nil
}

var _ ports.SignatureVerifier = (*XMLDsigVerifier)(nil)
