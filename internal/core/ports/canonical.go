package ports

import "github.com/jrjsmrtn/go-jux/internal/core/domain"

// Canonicalizer reduces XML to its canonical form and derives the canonical
// hash that identifies a report.
// This is a port interface - implementations are adapters.
type Canonicalizer interface {
	// Canonicalize parses data and returns its canonical byte form.
	// Logically equivalent documents canonicalize to identical bytes.
	Canonicalize(data []byte) ([]byte, error)

	// Hash parses data and returns the canonical hash of its canonical form.
	Hash(data []byte) (domain.CanonicalHash, error)
}
