package signature

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// xmldsig11Namespace holds ECKeyValue, which the core xmldsig namespace
// does not define.
const xmldsig11Namespace = "http://www.w3.org/2009/xmldsig11#"

// namedCurveOIDs maps Go curve names to the OID URIs used by the xmldsig11
// NamedCurve element.
var namedCurveOIDs = map[string]string{
	"P-256": "urn:oid:1.2.840.10045.3.1.7",
	"P-384": "urn:oid:1.3.132.0.34",
	"P-521": "urn:oid:1.3.132.0.35",
}

// newKeyValueElement builds a KeyInfo element carrying the bare public key,
// for signatures produced without a certificate. RSA keys use the core
// RSAKeyValue structure; ECDSA keys use the xmldsig11 ECKeyValue with the
// curve as an OID URI and the uncompressed EC point.
func newKeyValueElement(pub crypto.PublicKey, prefix string) (*etree.Element, error) {
	keyInfo := etree.NewElement(prefixed(prefix, dsig.KeyInfoTag))
	keyValue := keyInfo.CreateElement(prefixed(prefix, "KeyValue"))

	switch pub := pub.(type) {
	case *rsa.PublicKey:
		rsaKeyValue := keyValue.CreateElement(prefixed(prefix, "RSAKeyValue"))
		modulus := rsaKeyValue.CreateElement(prefixed(prefix, "Modulus"))
		modulus.SetText(base64.StdEncoding.EncodeToString(pub.N.Bytes()))
		exponent := rsaKeyValue.CreateElement(prefixed(prefix, "Exponent"))
		exponent.SetText(base64.StdEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()))

	case *ecdsa.PublicKey:
		curveName := pub.Curve.Params().Name
		curveURI, ok := namedCurveOIDs[curveName]
		if !ok {
			return nil, domain.UnsupportedCurveError(curveName)
		}
		ecdhKey, err := pub.ECDH()
		if err != nil {
			return nil, domain.UnsupportedCurveError(curveName)
		}
		ecKeyValue := keyValue.CreateElement("dsig11:ECKeyValue")
		ecKeyValue.CreateAttr("xmlns:dsig11", xmldsig11Namespace)
		namedCurve := ecKeyValue.CreateElement("dsig11:NamedCurve")
		namedCurve.CreateAttr("URI", curveURI)
		publicKey := ecKeyValue.CreateElement("dsig11:PublicKey")
		publicKey.SetText(base64.StdEncoding.EncodeToString(ecdhKey.Bytes()))

	default:
		return nil, domain.UnsupportedKeyTypeError(
			fmt.Sprintf("cannot embed %T in KeyInfo: only RSA and ECDSA public keys are supported", pub))
	}

	return keyInfo, nil
}

// replaceKeyInfo swaps the KeyInfo of a freshly constructed signature
// element. KeyInfo sits outside the signed content, so rewriting it after
// signing does not invalidate the signature.
func replaceKeyInfo(sigEl, keyInfo *etree.Element) {
	for _, child := range sigEl.ChildElements() {
		if child.Tag == dsig.KeyInfoTag {
			sigEl.RemoveChild(child)
		}
	}
	sigEl.AddChild(keyInfo)
}

func prefixed(prefix, tag string) string {
	if prefix == "" {
		return tag
	}
	return prefix + ":" + tag
}
