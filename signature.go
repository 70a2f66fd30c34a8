package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/signature"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Re-export the signing and verification surface from the internal packages
type ReportSigner = ports.ReportSigner
type SignatureVerifier = ports.SignatureVerifier
type SigningMaterial = ports.SigningMaterial
type CertificateMaterial = ports.CertificateMaterial
type PublicKeyMaterial = ports.PublicKeyMaterial

type SignatureInfo = domain.SignatureInfo
type AlgorithmPolicy = domain.AlgorithmPolicy

type SignerOption = signature.SignerOption
type VerifierOption = signature.VerifierOption

type XMLDsigSigner = signature.XMLDsigSigner
type XMLDsigVerifier = signature.XMLDsigVerifier
type NoopSigner = signature.NoopSigner
type NoopVerifier = signature.NoopVerifier

var (
	NewXMLDsigSigner   = signature.NewXMLDsigSigner
	NewXMLDsigVerifier = signature.NewXMLDsigVerifier
	NewNoopSigner      = signature.NewNoopSigner
	NewNoopVerifier    = signature.NewNoopVerifier

	WithSignerCertificate = signature.WithSignerCertificate
	WithPolicy            = signature.WithPolicy

	DefaultAlgorithmPolicy = domain.DefaultAlgorithmPolicy
)

// Note: the remaining signer/verifier options (clock, logger, metrics,
// size limits) are wiring knobs for the CLI and tests; they are not part
// of the re-exported surface.
