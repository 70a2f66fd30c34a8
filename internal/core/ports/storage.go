package ports

import (
	"time"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// ReportStore archives reports by canonical hash and spools reports that
// are waiting to be published.
// This is a port interface - implementations are adapters.
type ReportStore interface {
	// Store archives report bytes under meta.Hash together with the
	// metadata sidecar. Storing the same hash twice overwrites in place.
	Store(report []byte, meta domain.ReportMetadata) error

	// Get returns the archived report bytes for hash.
	Get(hash domain.CanonicalHash) ([]byte, error)

	// GetMetadata returns the metadata sidecar for hash.
	GetMetadata(hash domain.CanonicalHash) (domain.ReportMetadata, error)

	// List returns metadata for every archived report, newest first.
	List() ([]domain.ReportMetadata, error)

	// Stats summarizes the archive.
	Stats() (domain.StorageStats, error)

	// Clean removes archived reports stored before cutoff and returns the
	// hashes it removed. With dryRun set it only reports what would go.
	Clean(cutoff time.Time, dryRun bool) ([]domain.CanonicalHash, error)

	// Enqueue spools report bytes for later publishing.
	Enqueue(report []byte, hash domain.CanonicalHash) error

	// ListQueued returns the hashes waiting in the publish spool.
	ListQueued() ([]domain.CanonicalHash, error)

	// GetQueued returns the spooled report bytes for hash.
	GetQueued(hash domain.CanonicalHash) ([]byte, error)

	// Dequeue removes hash from the publish spool.
	Dequeue(hash domain.CanonicalHash) error
}
