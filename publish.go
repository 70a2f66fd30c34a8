package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/api"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Re-export the publishing surface from the internal packages
type ReportPublisher = ports.ReportPublisher
type PublishReceipt = domain.PublishReceipt
type PublishResult = domain.PublishResult

var (
	NewPublishClient = api.NewClient

	WithBearerToken  = api.WithBearerToken
	WithHTTPClient   = api.WithHTTPClient
	WithTimeout      = api.WithTimeout
	WithMaxAttempts  = api.WithMaxAttempts
	WithRetryBackoff = api.WithRetryBackoff
)

// Note: clock, logger, and metrics injection for the publish client are
// not re-exported; they exist for the CLI wiring and for tests.
