package envinfo

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Option configures a Capturer.
type Option func(*options)

type options struct {
	workDir      string
	projectName  string
	envVars      []string
	toolVersions map[string]string
	clock        clockwork.Clock
	logger       *zap.Logger
}

func defaultOptions() options {
	return options{
		clock: clockwork.NewRealClock(),
	}
}

// WithWorkDir sets the directory to inspect for git and project
// information. Defaults to the current working directory.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithProjectName overrides project name detection.
func WithProjectName(name string) Option {
	return func(o *options) {
		o.projectName = name
	}
}

// WithEnvVars sets the allow-list of environment variable names to
// capture. Nothing outside this list is ever recorded.
func WithEnvVars(names []string) Option {
	return func(o *options) {
		o.envVars = names
	}
}

// WithToolVersion registers a tool version to record alongside the
// binary's own, e.g. the embedding test harness.
func WithToolVersion(name, version string) Option {
	return func(o *options) {
		if o.toolVersions == nil {
			o.toolVersions = make(map[string]string)
		}
		o.toolVersions[name] = version
	}
}

// WithClock sets the clock used for the capture timestamp.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger for capture diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
