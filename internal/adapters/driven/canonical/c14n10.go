package canonical

import (
	"bytes"
	"encoding/xml"

	"github.com/ucarion/c14n"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// C14N10Canonicalizer reduces XML to (inclusive) Canonical XML 1.0 without
// comments using a token-stream implementation. It produces different bytes
// than the exclusive form, so hashes from the two canonicalizers are not
// interchangeable; pick one per deployment.
type C14N10Canonicalizer struct {
	maxSize int64
	logger  *zap.Logger
}

// NewC14N10Canonicalizer creates an inclusive Canonical XML 1.0 canonicalizer.
func NewC14N10Canonicalizer(opts ...Option) *C14N10Canonicalizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &C14N10Canonicalizer{
		maxSize: o.maxDocumentSize,
		logger:  o.logger,
	}
}

// Canonicalize parses data and returns its canonical byte form.
func (c *C14N10Canonicalizer) Canonicalize(data []byte) ([]byte, error) {
	// Run the hardened loader first so size and DOCTYPE limits apply
	// identically across canonicalizer implementations.
	if _, err := LoadDocument(data, c.maxSize); err != nil {
		return nil, err
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	canonical, err := c14n.Canonicalize(decoder)
	if err != nil {
		return nil, domain.ParseError("canonicalization failed", err)
	}
	if c.logger != nil {
		c.logger.Debug("canonicalized document",
			zap.Int("canonical_bytes", len(canonical)),
		)
	}
	return canonical, nil
}

// Hash parses data and returns the canonical hash of its canonical form.
func (c *C14N10Canonicalizer) Hash(data []byte) (domain.CanonicalHash, error) {
	canonical, err := c.Canonicalize(data)
	if err != nil {
		return "", err
	}
	return domain.NewCanonicalHash(canonical), nil
}

// Ensure implementation satisfies the interface
var _ ports.Canonicalizer = (*C14N10Canonicalizer)(nil)
