package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/storage"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Re-export the report archive surface from the internal packages
type ReportStore = ports.ReportStore
type ReportMetadata = domain.ReportMetadata
type StorageStats = domain.StorageStats

var (
	NewFileReportStore = storage.NewFileReportStore
	DefaultRoot        = storage.DefaultRoot
)

// Note: store options (logger, metrics) are not re-exported; the store
// works with defaults outside the module.
