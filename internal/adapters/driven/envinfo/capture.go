// Package envinfo captures metadata about the environment a test report
// was produced in: host and user, Go runtime, git work tree state, CI
// provider, and an explicit allow-list of environment variables.
//
// Capture is best-effort. A machine without git, a directory outside
// any repository, or a non-CI shell all yield valid metadata with the
// corresponding fields left empty.
package envinfo

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Capturer collects environment metadata for report sidecars.
type Capturer struct {
	workDir      string
	projectName  string
	envVars      []string
	toolVersions map[string]string
	clock        clockwork.Clock
	logger       *zap.Logger
}

// Interface guard
var _ ports.EnvironmentCapturer = (*Capturer)(nil)

// NewCapturer creates a Capturer with the given options.
func NewCapturer(opts ...Option) *Capturer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Capturer{
		workDir:      o.workDir,
		projectName:  o.projectName,
		envVars:      o.envVars,
		toolVersions: o.toolVersions,
		clock:        o.clock,
		logger:       o.logger,
	}
}

// Capture gathers what it can discover about the current environment.
// It never fails; fields it cannot determine stay empty.
func (c *Capturer) Capture(ctx context.Context) domain.EnvironmentMetadata {
	meta := domain.EnvironmentMetadata{
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		RuntimeVersion: runtime.Version(),
		ToolVersions:   c.captureToolVersions(),
		Timestamp:      c.clock.Now().UTC(),
	}

	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}
	meta.Username = currentUsername()

	workDir := c.workDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	git := captureGitInfo(ctx, workDir)
	meta.GitCommit = git.commit
	meta.GitBranch = git.branch
	meta.GitDirty = git.dirty
	meta.GitRemote = git.remote

	meta.ProjectName = c.resolveProjectName(workDir, git.topLevel)

	if ci, ok := detectCI(); ok {
		meta.CIProvider = ci.provider
		meta.CIBuildID = ci.buildID
		meta.CIBuildURL = ci.buildURL
	}

	if len(c.envVars) > 0 {
		meta.EnvVars = captureEnvVars(c.envVars)
	}

	if c.logger != nil {
		c.logger.Debug("captured environment metadata",
			zap.String("project", meta.ProjectName),
			zap.String("git_commit", meta.GitCommit),
			zap.String("ci_provider", meta.CIProvider))
	}
	return meta
}

// resolveProjectName prefers the configured name, then the git work tree
// root, then the inspected directory itself.
func (c *Capturer) resolveProjectName(workDir, gitTopLevel string) string {
	if c.projectName != "" {
		return c.projectName
	}
	if gitTopLevel != "" {
		return filepath.Base(gitTopLevel)
	}
	if workDir != "" {
		if abs, err := filepath.Abs(workDir); err == nil {
			return filepath.Base(abs)
		}
	}
	return ""
}

// captureToolVersions records the binary's own module version from the
// build info, with registered tool versions merged over it. Unstamped
// builds (plain go test binaries) contribute nothing.
func (c *Capturer) captureToolVersions() map[string]string {
	versions := make(map[string]string, len(c.toolVersions)+1)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" && info.Main.Version != "" {
		versions[filepath.Base(info.Main.Path)] = info.Main.Version
	}
	for name, version := range c.toolVersions {
		versions[name] = version
	}
	if len(versions) == 0 {
		return nil
	}
	return versions
}

// currentUsername falls back to the environment when the user database
// is unavailable, as happens in minimal containers.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

// captureEnvVars records only the requested names. Variables that are
// unset are omitted rather than captured as empty.
func captureEnvVars(names []string) map[string]string {
	vars := make(map[string]string, len(names))
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			vars[name] = value
		}
	}
	if len(vars) == 0 {
		return nil
	}
	return vars
}
