package envinfo

import (
	"context"
	"os/exec"
	"strings"
)

// gitInfo holds the work tree state of the inspected directory.
type gitInfo struct {
	topLevel string
	commit   string
	branch   string
	dirty    bool
	remote   string
}

// captureGitInfo shells out to git for the state of dir. A missing git
// binary or a directory outside any repository returns the zero value.
func captureGitInfo(ctx context.Context, dir string) gitInfo {
	var info gitInfo
	if dir == "" {
		return info
	}
	if _, err := exec.LookPath("git"); err != nil {
		return info
	}

	topLevel, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil || topLevel == "" {
		return info
	}
	info.topLevel = topLevel

	// Each field is independent; one failing command does not discard
	// the others.
	if commit, err := runGit(ctx, dir, "rev-parse", "HEAD"); err == nil {
		info.commit = commit
	}
	if branch, err := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		info.branch = branch
	}
	if status, err := runGit(ctx, dir, "status", "--porcelain"); err == nil {
		info.dirty = status != ""
	}
	if remote, err := runGit(ctx, dir, "remote", "get-url", "origin"); err == nil {
		info.remote = remote
	}
	return info
}

// runGit executes one git subcommand in dir and returns its trimmed
// standard output.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
