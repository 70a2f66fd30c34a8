package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/keys"
)

// Re-export key generation, persistence, and certificate helpers
type CertOption = keys.CertOption

const DefaultSubjectCN = keys.DefaultSubjectCN
const DefaultDaysValid = keys.DefaultDaysValid

var (
	GenerateRSAKey   = keys.GenerateRSAKey
	GenerateECDSAKey = keys.GenerateECDSAKey
	SupportedRSABits = keys.SupportedRSABits
	SupportedCurves  = keys.SupportedCurves

	LoadKey               = keys.LoadKey
	LoadKeyWithPassphrase = keys.LoadKeyWithPassphrase
	LoadCertificate       = keys.LoadCertificate
	LoadCertificates      = keys.LoadCertificates

	SaveKey          = keys.SaveKey
	SaveKeyEncrypted = keys.SaveKeyEncrypted
	SaveCertificate  = keys.SaveCertificate

	GenerateSelfSignedCert = keys.GenerateSelfSignedCert
	WithSubject            = keys.WithSubject
	WithDaysValid          = keys.WithDaysValid
)

// Note: keys.WithClock is not re-exported; it exists so certificate
// validity tests can pin time.
