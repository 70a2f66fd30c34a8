package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Re-export the canonicalization surface from the internal packages
type Canonicalizer = ports.Canonicalizer
type CanonicalHash = domain.CanonicalHash
type ReportSummary = domain.ReportSummary

const HashPrefix = domain.HashPrefix

// DefaultMaxDocumentSize bounds how large an XML document the loader
// will accept.
const DefaultMaxDocumentSize = canonical.DefaultMaxDocumentSize

var (
	NewCanonicalHash   = domain.NewCanonicalHash
	ParseCanonicalHash = domain.ParseCanonicalHash

	NewExcC14NCanonicalizer = canonical.NewExcC14NCanonicalizer
	NewC14N10Canonicalizer  = canonical.NewC14N10Canonicalizer

	LoadDocument = canonical.LoadDocument
	LoadFile     = canonical.LoadFile
	Summarize    = canonical.Summarize
)

// Note: canonicalizer options (document size limit, logger) are not
// re-exported; construct with defaults here or use the canonical package
// from inside the module.
