package canonical

import (
	"bytes"
	"fmt"
	"os"

	"github.com/beevik/etree"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// DefaultMaxDocumentSize bounds parsed reports at 50 MiB.
const DefaultMaxDocumentSize = 50 << 20

var doctypeNeedle = []byte("<!doctype")

// LoadDocument parses report bytes with hardened settings shared by every
// XML entry point in this module.
//
// Documents carrying a DOCTYPE are rejected outright: etree never resolves
// external entities, and refusing the declaration itself closes off XXE and
// entity-expansion input before any tree is built. maxSize bounds the raw
// input; zero or negative disables the bound.
func LoadDocument(data []byte, maxSize int64) (*etree.Document, error) {
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, domain.ParseError(
			fmt.Sprintf("document size %d exceeds the %d byte limit", len(data), maxSize), nil)
	}
	if containsDoctype(data) {
		return nil, domain.ParseError("document type declarations are not allowed", nil)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, domain.ParseError("failed to parse XML", err)
	}
	if doc.Root() == nil {
		return nil, domain.ParseError("document has no root element", nil)
	}

	// The byte scan above is a fast path; the token scan is authoritative
	// for directives the parser accepted in any spelling.
	for _, token := range doc.Child {
		if _, ok := token.(*etree.Directive); ok {
			return nil, domain.ParseError("document type declarations are not allowed", nil)
		}
	}
	return doc, nil
}

// LoadFile reads and parses a report file with the same hardening as
// LoadDocument. Read failures propagate as file access errors.
func LoadFile(path string, maxSize int64) (*etree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileAccessError(fmt.Sprintf("failed to read %s", path), err)
	}
	return LoadDocument(data, maxSize)
}

// containsDoctype scans the start of the document for a DOCTYPE declaration.
// A DOCTYPE is only legal before the root element, so a bounded scan covers
// it; the directive token scan above backstops unusual prologs.
func containsDoctype(data []byte) bool {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	return bytes.Contains(bytes.ToLower(head), doctypeNeedle)
}
