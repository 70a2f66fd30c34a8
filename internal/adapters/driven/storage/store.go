// Package storage archives reports on the local filesystem, addressed by
// their canonical hash, and spools reports that wait to be published.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

const (
	reportsSubdir  = "reports"
	metadataSubdir = "metadata"
	queueSubdir    = "queue"

	reportExt   = ".xml"
	metadataExt = ".json"
)

// FileReportStore keeps each report as reports/<hash>.xml with a JSON
// metadata sidecar under metadata/, and the publish spool under queue/.
// The metadata sidecar is written last, so its presence implies the report
// file exists.
type FileReportStore struct {
	root    string
	logger  *zap.Logger
	metrics ports.MetricsRecorder
}

// NewFileReportStore creates a store rooted at root. An empty root selects
// the per-user data directory.
func NewFileReportStore(root string, opts ...Option) (*FileReportStore, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if root == "" {
		defaultRoot, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		root = defaultRoot
	}

	return &FileReportStore{
		root:    root,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// DefaultRoot returns the per-user data directory for the report archive:
// ~/.local/share/jux on Linux (honoring XDG_DATA_HOME),
// ~/Library/Application Support/jux on macOS, %LOCALAPPDATA%\jux on Windows.
func DefaultRoot() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", domain.StorageError("resolving home directory failed", err)
		}
		return filepath.Join(home, "Library", "Application Support", "jux"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "jux"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", domain.StorageError("resolving home directory failed", err)
		}
		return filepath.Join(home, "AppData", "Local", "jux"), nil
	default:
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "jux"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", domain.StorageError("resolving home directory failed", err)
		}
		return filepath.Join(home, ".local", "share", "jux"), nil
	}
}

// Root returns the archive root directory.
func (s *FileReportStore) Root() string {
	return s.root
}

// Store archives report bytes under meta.Hash together with the metadata
// sidecar. Storing the same hash twice overwrites in place.
func (s *FileReportStore) Store(report []byte, meta domain.ReportMetadata) error {
	if err := meta.Hash.Validate(); err != nil {
		return err
	}

	if err := s.writeFile(reportsSubdir, meta.Hash.Hex()+reportExt, report); err != nil {
		return domain.StorageError("storing report failed", err)
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return domain.StorageError("encoding report metadata failed", err)
	}
	if err := s.writeFile(metadataSubdir, meta.Hash.Hex()+metadataExt, metaJSON); err != nil {
		return domain.StorageError("storing report metadata failed", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReportStored(len(report))
	}
	if s.logger != nil {
		s.logger.Debug("report archived",
			zap.String("hash", meta.Hash.Short()),
			zap.Int("bytes", len(report)))
	}
	return nil
}

// Get returns the archived report bytes for hash.
func (s *FileReportStore) Get(hash domain.CanonicalHash) ([]byte, error) {
	if err := hash.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, reportsSubdir, hash.Hex()+reportExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.StorageError(fmt.Sprintf("report not found: %s", hash), err)
		}
		return nil, domain.StorageError("reading report failed", err)
	}
	return data, nil
}

// GetMetadata returns the metadata sidecar for hash.
func (s *FileReportStore) GetMetadata(hash domain.CanonicalHash) (domain.ReportMetadata, error) {
	var meta domain.ReportMetadata
	if err := hash.Validate(); err != nil {
		return meta, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, metadataSubdir, hash.Hex()+metadataExt))
	if err != nil {
		if os.IsNotExist(err) {
			return meta, domain.StorageError(fmt.Sprintf("report not found: %s", hash), err)
		}
		return meta, domain.StorageError("reading report metadata failed", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, domain.StorageError("decoding report metadata failed", err)
	}
	return meta, nil
}

// List returns metadata for every archived report, newest first.
func (s *FileReportStore) List() ([]domain.ReportMetadata, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, metadataSubdir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.StorageError("listing archive failed", err)
	}

	var metas []domain.ReportMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metadataExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, metadataSubdir, entry.Name()))
		if err != nil {
			return nil, domain.StorageError("reading report metadata failed", err)
		}
		var meta domain.ReportMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, domain.StorageError(fmt.Sprintf("decoding %s failed", entry.Name()), err)
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].StoredAt.After(metas[j].StoredAt)
	})
	return metas, nil
}

// Stats summarizes the archive and the publish spool.
func (s *FileReportStore) Stats() (domain.StorageStats, error) {
	var stats domain.StorageStats

	metas, err := s.List()
	if err != nil {
		return stats, err
	}
	stats.Count = len(metas)
	for i, meta := range metas {
		if i == 0 || meta.StoredAt.After(stats.Newest) {
			stats.Newest = meta.StoredAt
		}
		if i == 0 || meta.StoredAt.Before(stats.Oldest) {
			stats.Oldest = meta.StoredAt
		}
		info, err := os.Stat(filepath.Join(s.root, reportsSubdir, meta.Hash.Hex()+reportExt))
		if err == nil {
			stats.TotalBytes += info.Size()
		}
	}

	queued, err := s.ListQueued()
	if err != nil {
		return stats, err
	}
	stats.QueuedCount = len(queued)
	return stats, nil
}

// Clean removes archived reports stored before cutoff and returns their
// hashes, newest first. With dryRun set nothing is deleted.
func (s *FileReportStore) Clean(cutoff time.Time, dryRun bool) ([]domain.CanonicalHash, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}

	var removed []domain.CanonicalHash
	for _, meta := range metas {
		if !meta.StoredAt.Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := os.Remove(filepath.Join(s.root, reportsSubdir, meta.Hash.Hex()+reportExt)); err != nil && !os.IsNotExist(err) {
				return removed, domain.StorageError("removing report failed", err)
			}
			if err := os.Remove(filepath.Join(s.root, metadataSubdir, meta.Hash.Hex()+metadataExt)); err != nil && !os.IsNotExist(err) {
				return removed, domain.StorageError("removing report metadata failed", err)
			}
		}
		removed = append(removed, meta.Hash)
	}

	if s.logger != nil && !dryRun && len(removed) > 0 {
		s.logger.Info("archive cleaned",
			zap.Int("removed", len(removed)),
			zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

// Enqueue spools report bytes for later publishing.
func (s *FileReportStore) Enqueue(report []byte, hash domain.CanonicalHash) error {
	if err := hash.Validate(); err != nil {
		return err
	}
	if err := s.writeFile(queueSubdir, hash.Hex()+reportExt, report); err != nil {
		return domain.StorageError("spooling report failed", err)
	}
	if s.logger != nil {
		s.logger.Debug("report spooled for publishing", zap.String("hash", hash.Short()))
	}
	return nil
}

// ListQueued returns the hashes waiting in the publish spool, in stable
// (lexicographic) order.
func (s *FileReportStore) ListQueued() ([]domain.CanonicalHash, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, queueSubdir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.StorageError("listing publish spool failed", err)
	}

	var hashes []domain.CanonicalHash
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), reportExt) {
			continue
		}
		hash, err := domain.ParseCanonicalHash(domain.HashPrefix + strings.TrimSuffix(entry.Name(), reportExt))
		if err != nil {
			continue
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// GetQueued returns the spooled report bytes for hash.
func (s *FileReportStore) GetQueued(hash domain.CanonicalHash) ([]byte, error) {
	if err := hash.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, queueSubdir, hash.Hex()+reportExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.StorageError(fmt.Sprintf("queued report not found: %s", hash), err)
		}
		return nil, domain.StorageError("reading queued report failed", err)
	}
	return data, nil
}

// Dequeue removes hash from the publish spool.
func (s *FileReportStore) Dequeue(hash domain.CanonicalHash) error {
	if err := hash.Validate(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, queueSubdir, hash.Hex()+reportExt)); err != nil {
		if os.IsNotExist(err) {
			return domain.StorageError(fmt.Sprintf("queued report not found: %s", hash), err)
		}
		return domain.StorageError("removing queued report failed", err)
	}
	return nil
}

// writeFile writes data into subdir atomically: temp file in the same
// directory, then rename over the final name.
func (s *FileReportStore) writeFile(subdir, name string, data []byte) error {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

var _ ports.ReportStore = (*FileReportStore)(nil)
