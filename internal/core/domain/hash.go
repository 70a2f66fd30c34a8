package domain

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// HashPrefix is the algorithm prefix carried by every canonical hash.
const HashPrefix = "sha256:"

// CanonicalHash is the content identity of a report: "sha256:" followed by
// the lowercase hex SHA-256 of the report's canonical form.
// This is the core domain model - it has no external dependencies.
type CanonicalHash string

// NewCanonicalHash computes the canonical hash of already-canonicalized bytes.
func NewCanonicalHash(canonical []byte) CanonicalHash {
	sum := sha256.Sum256(canonical)
	return CanonicalHash(HashPrefix + fmt.Sprintf("%x", sum))
}

// ParseCanonicalHash validates s and returns it as a CanonicalHash.
func ParseCanonicalHash(s string) (CanonicalHash, error) {
	h := CanonicalHash(s)
	if err := h.Validate(); err != nil {
		return "", err
	}
	return h, nil
}

// String returns the full "sha256:<hex>" form.
func (h CanonicalHash) String() string {
	return string(h)
}

// Hex returns the hex digest without the algorithm prefix.
func (h CanonicalHash) Hex() string {
	return strings.TrimPrefix(string(h), HashPrefix)
}

// Short returns the first 12 hex characters, for log lines and listings.
func (h CanonicalHash) Short() string {
	hex := h.Hex()
	if len(hex) > 12 {
		return hex[:12]
	}
	return hex
}

// Validate checks the "sha256:" prefix and the 64-character lowercase hex digest.
func (h CanonicalHash) Validate() error {
	s := string(h)
	if !strings.HasPrefix(s, HashPrefix) {
		return ParseError(fmt.Sprintf("canonical hash %q missing %q prefix", s, HashPrefix), nil)
	}
	hex := s[len(HashPrefix):]
	if len(hex) != sha256.Size*2 {
		return ParseError(fmt.Sprintf("canonical hash digest has %d characters, want %d", len(hex), sha256.Size*2), nil)
	}
	for _, r := range hex {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return ParseError(fmt.Sprintf("canonical hash digest contains non-hex character %q", r), nil)
		}
	}
	return nil
}
