package domain

import "fmt"

// XMLDSig algorithm identifiers accepted by the default verification policy.
const (
	CanonicalizationExcC14N             = "http://www.w3.org/2001/10/xml-exc-c14n#"
	CanonicalizationExcC14NWithComments = "http://www.w3.org/2001/10/xml-exc-c14n#WithComments"
	CanonicalizationC14N10              = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	CanonicalizationC14N10WithComments  = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315#WithComments"
	CanonicalizationC14N11              = "http://www.w3.org/2006/12/xml-c14n11"

	SignatureRSASHA256   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	SignatureRSASHA384   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha384"
	SignatureRSASHA512   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha512"
	SignatureECDSASHA256 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha256"
	SignatureECDSASHA384 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha384"
	SignatureECDSASHA512 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha512"

	DigestSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"
	DigestSHA384 = "http://www.w3.org/2001/04/xmldsig-more#sha384"
	DigestSHA512 = "http://www.w3.org/2001/04/xmlenc#sha512"

	TransformEnvelopedSignature = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// AlgorithmPolicy is the allow-list enforced before any cryptographic work
// during verification. A signature declaring an algorithm outside these sets
// is rejected without computing a single digest, so legacy or null algorithms
// (SHA-1, MD5, "none") can never downgrade a verification.
type AlgorithmPolicy struct {
	// CanonicalizationMethods allowed for SignedInfo and references.
	CanonicalizationMethods map[string]bool

	// SignatureMethods allowed for the SignatureValue.
	SignatureMethods map[string]bool

	// DigestMethods allowed for reference digests.
	DigestMethods map[string]bool

	// Transforms allowed inside Reference transform chains.
	Transforms map[string]bool
}

// DefaultAlgorithmPolicy returns the policy used by the verifier: exclusive
// and inclusive C14N, RSA and ECDSA with the SHA-2 family, nothing older.
func DefaultAlgorithmPolicy() AlgorithmPolicy {
	return AlgorithmPolicy{
		CanonicalizationMethods: map[string]bool{
			CanonicalizationExcC14N:             true,
			CanonicalizationExcC14NWithComments: true,
			CanonicalizationC14N10:              true,
			CanonicalizationC14N10WithComments:  true,
			CanonicalizationC14N11:              true,
		},
		SignatureMethods: map[string]bool{
			SignatureRSASHA256:   true,
			SignatureRSASHA384:   true,
			SignatureRSASHA512:   true,
			SignatureECDSASHA256: true,
			SignatureECDSASHA384: true,
			SignatureECDSASHA512: true,
		},
		DigestMethods: map[string]bool{
			DigestSHA256: true,
			DigestSHA384: true,
			DigestSHA512: true,
		},
		Transforms: map[string]bool{
			TransformEnvelopedSignature:         true,
			CanonicalizationExcC14N:             true,
			CanonicalizationExcC14NWithComments: true,
			CanonicalizationC14N10:              true,
			CanonicalizationC14N10WithComments:  true,
			CanonicalizationC14N11:              true,
		},
	}
}

// CheckCanonicalization rejects canonicalization methods outside the policy.
func (p AlgorithmPolicy) CheckCanonicalization(uri string) error {
	return p.check(p.CanonicalizationMethods, "canonicalization method", uri)
}

// CheckSignatureMethod rejects signature methods outside the policy.
func (p AlgorithmPolicy) CheckSignatureMethod(uri string) error {
	return p.check(p.SignatureMethods, "signature method", uri)
}

// CheckDigestMethod rejects digest methods outside the policy.
func (p AlgorithmPolicy) CheckDigestMethod(uri string) error {
	return p.check(p.DigestMethods, "digest method", uri)
}

// CheckTransform rejects reference transforms outside the policy.
func (p AlgorithmPolicy) CheckTransform(uri string) error {
	return p.check(p.Transforms, "transform", uri)
}

func (p AlgorithmPolicy) check(allowed map[string]bool, kind, uri string) error {
	if uri == "" {
		return SignatureInvalidError(fmt.Sprintf("signature declares no %s", kind), nil)
	}
	if !allowed[uri] {
		return SignatureInvalidError(fmt.Sprintf("%s %q not allowed by verification policy", kind, uri), nil)
	}
	return nil
}
