package ports

import (
	"context"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// ReportPublisher submits signed reports to a collection endpoint.
// This is a port interface - implementations are adapters.
type ReportPublisher interface {
	// Publish submits the signed report and returns the server's receipt.
	// A report the server already knows fails with a distinguished
	// duplicate error.
	Publish(ctx context.Context, report []byte) (domain.PublishReceipt, error)
}
