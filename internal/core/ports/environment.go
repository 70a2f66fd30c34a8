package ports

import (
	"context"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// EnvironmentCapturer collects metadata about the machine, work tree, and
// CI system a test run happened on.
// This is a port interface - implementations are adapters.
type EnvironmentCapturer interface {
	// Capture gathers what it can discover and leaves the rest empty.
	// It never fails; a missing git binary or a directory outside any
	// repository just produces fewer fields.
	Capture(ctx context.Context) domain.EnvironmentMetadata
}
