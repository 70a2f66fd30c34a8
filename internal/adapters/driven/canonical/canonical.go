package canonical

import (
	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// ExcC14NCanonicalizer reduces XML to Exclusive Canonical XML 1.0 without
// comments, the canonicalization XMLDSig itself uses. Two reports that
// differ only in attribute order, redundant namespace declarations, or
// inter-element whitespace outside text content canonicalize to identical
// bytes, so their canonical hashes agree.
type ExcC14NCanonicalizer struct {
	canonicalizer dsig.Canonicalizer
	maxSize       int64
	logger        *zap.Logger
}

// NewExcC14NCanonicalizer creates the default canonicalizer.
func NewExcC14NCanonicalizer(opts ...Option) *ExcC14NCanonicalizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ExcC14NCanonicalizer{
		canonicalizer: dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(""),
		maxSize:       o.maxDocumentSize,
		logger:        o.logger,
	}
}

// Load parses report bytes with the hardened settings.
func (c *ExcC14NCanonicalizer) Load(data []byte) (*etree.Document, error) {
	return LoadDocument(data, c.maxSize)
}

// LoadFile reads and parses a report file with the hardened settings.
func (c *ExcC14NCanonicalizer) LoadFile(path string) (*etree.Document, error) {
	return LoadFile(path, c.maxSize)
}

// Canonicalize parses data and returns its canonical byte form.
func (c *ExcC14NCanonicalizer) Canonicalize(data []byte) ([]byte, error) {
	doc, err := c.Load(data)
	if err != nil {
		return nil, err
	}
	return c.CanonicalizeDocument(doc)
}

// CanonicalizeDocument returns the canonical byte form of an already-parsed
// document. The document is not modified; canonicalization works on a copy.
func (c *ExcC14NCanonicalizer) CanonicalizeDocument(doc *etree.Document) ([]byte, error) {
	root := doc.Root()
	if root == nil {
		return nil, domain.ParseError("document has no root element", nil)
	}
	canonical, err := c.canonicalizer.Canonicalize(root.Copy())
	if err != nil {
		return nil, domain.ParseError("canonicalization failed", err)
	}
	if c.logger != nil {
		c.logger.Debug("canonicalized document",
			zap.String("root", root.Tag),
			zap.Int("canonical_bytes", len(canonical)),
		)
	}
	return canonical, nil
}

// Hash parses data and returns the canonical hash of its canonical form.
func (c *ExcC14NCanonicalizer) Hash(data []byte) (domain.CanonicalHash, error) {
	canonical, err := c.Canonicalize(data)
	if err != nil {
		return "", err
	}
	return domain.NewCanonicalHash(canonical), nil
}

// HashDocument returns the canonical hash of an already-parsed document.
func (c *ExcC14NCanonicalizer) HashDocument(doc *etree.Document) (domain.CanonicalHash, error) {
	canonical, err := c.CanonicalizeDocument(doc)
	if err != nil {
		return "", err
	}
	return domain.NewCanonicalHash(canonical), nil
}

// Ensure implementation satisfies the interface
var _ ports.Canonicalizer = (*ExcC14NCanonicalizer)(nil)
