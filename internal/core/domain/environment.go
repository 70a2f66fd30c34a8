package domain

import "time"

// EnvironmentMetadata captures where and how a report was produced.
// All fields are optional; capture fills what it can discover and leaves
// the rest empty rather than failing.
type EnvironmentMetadata struct {
	// Hostname is the machine that ran the tests.
	Hostname string `json:"hostname,omitempty" yaml:"hostname,omitempty"`

	// Username is the local user that ran the tests.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Platform is the OS and architecture, e.g. "linux/amd64".
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`

	// RuntimeVersion is the Go runtime the tool was built with.
	RuntimeVersion string `json:"runtime_version,omitempty" yaml:"runtime_version,omitempty"`

	// ToolVersions maps tool names to versions: the signing tool itself
	// plus whatever the embedding harness registers.
	ToolVersions map[string]string `json:"tool_versions,omitempty" yaml:"tool_versions,omitempty"`

	// Timestamp is when the metadata was captured, in UTC.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// ProjectName is the directory or configured project the report belongs to.
	ProjectName string `json:"project_name,omitempty" yaml:"project_name,omitempty"`

	// GitCommit is the HEAD commit hash, when inside a git work tree.
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`

	// GitBranch is the current branch name, when inside a git work tree.
	GitBranch string `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`

	// GitDirty is true when the work tree has uncommitted changes.
	GitDirty bool `json:"git_dirty,omitempty" yaml:"git_dirty,omitempty"`

	// GitRemote is the origin remote URL, when configured.
	GitRemote string `json:"git_remote,omitempty" yaml:"git_remote,omitempty"`

	// CIProvider names the detected CI system, e.g. "github-actions".
	CIProvider string `json:"ci_provider,omitempty" yaml:"ci_provider,omitempty"`

	// CIBuildID is the provider's identifier for this build.
	CIBuildID string `json:"ci_build_id,omitempty" yaml:"ci_build_id,omitempty"`

	// CIBuildURL links to the build, when the provider exposes one.
	CIBuildURL string `json:"ci_build_url,omitempty" yaml:"ci_build_url,omitempty"`

	// EnvVars holds the explicitly requested environment variables.
	// Only configured names are captured, never the whole environment.
	EnvVars map[string]string `json:"env_vars,omitempty" yaml:"env_vars,omitempty"`
}

// InCI reports whether a CI system was detected at capture time.
func (m EnvironmentMetadata) InCI() bool {
	return m.CIProvider != ""
}
