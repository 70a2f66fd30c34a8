package signature

import (
	"crypto"

	dsig "github.com/russellhaering/goxmldsig"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// signatureAlgorithm describes a SignatureMethod URI in terms the crypto
// packages understand.
type signatureAlgorithm struct {
	hash    crypto.Hash
	keyType string // "rsa" or "ecdsa"
	name    string // human-readable, for logs and inspect output
}

var signatureAlgorithms = map[string]signatureAlgorithm{
	domain.SignatureRSASHA256:   {hash: crypto.SHA256, keyType: "rsa", name: "RSA-SHA256"},
	domain.SignatureRSASHA384:   {hash: crypto.SHA384, keyType: "rsa", name: "RSA-SHA384"},
	domain.SignatureRSASHA512:   {hash: crypto.SHA512, keyType: "rsa", name: "RSA-SHA512"},
	domain.SignatureECDSASHA256: {hash: crypto.SHA256, keyType: "ecdsa", name: "ECDSA-SHA256"},
	domain.SignatureECDSASHA384: {hash: crypto.SHA384, keyType: "ecdsa", name: "ECDSA-SHA384"},
	domain.SignatureECDSASHA512: {hash: crypto.SHA512, keyType: "ecdsa", name: "ECDSA-SHA512"},
}

var digestAlgorithms = map[string]crypto.Hash{
	domain.DigestSHA256: crypto.SHA256,
	domain.DigestSHA384: crypto.SHA384,
	domain.DigestSHA512: crypto.SHA512,
}

// algorithmName returns a short human-readable name for an algorithm URI,
// falling back to the URI itself for anything unrecognized.
func algorithmName(uri string) string {
	if alg, ok := signatureAlgorithms[uri]; ok {
		return alg.name
	}
	switch uri {
	case domain.CanonicalizationExcC14N:
		return "Exclusive C14N 1.0"
	case domain.CanonicalizationExcC14NWithComments:
		return "Exclusive C14N 1.0 (with comments)"
	case domain.CanonicalizationC14N10:
		return "C14N 1.0"
	case domain.CanonicalizationC14N10WithComments:
		return "C14N 1.0 (with comments)"
	case domain.CanonicalizationC14N11:
		return "C14N 1.1"
	case domain.DigestSHA256:
		return "SHA-256"
	case domain.DigestSHA384:
		return "SHA-384"
	case domain.DigestSHA512:
		return "SHA-512"
	}
	return uri
}

// canonicalizerForURI maps a CanonicalizationMethod URI to a canonicalizer.
// Only URIs in the default algorithm policy are mapped; the policy check
// runs first, so an unmapped URI here means the policy was widened without
// teaching the verifier the new method.
func canonicalizerForURI(uri string) (dsig.Canonicalizer, bool) {
	switch uri {
	case domain.CanonicalizationExcC14N:
		return dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(""), true
	case domain.CanonicalizationExcC14NWithComments:
		return dsig.MakeC14N10ExclusiveWithCommentsCanonicalizerWithPrefixList(""), true
	case domain.CanonicalizationC14N10:
		return dsig.MakeC14N10RecCanonicalizer(), true
	case domain.CanonicalizationC14N10WithComments:
		return dsig.MakeC14N10WithCommentsCanonicalizer(), true
	case domain.CanonicalizationC14N11:
		return dsig.MakeC14N11Canonicalizer(), true
	}
	return nil, false
}
