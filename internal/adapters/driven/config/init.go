package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// starterConfig is what `jux config init` writes: every option present,
// optional ones commented out with example values.
const starterConfig = `# jux configuration
#
# Precedence: defaults < this file < JUX_* environment variables.
# Signing and publishing stay off until explicitly enabled.

[jux]
# Master switch for report processing.
enabled = false

# Sign reports after canonicalization.
sign = false
# key_path = "~/.config/jux/signing.key"
# cert_path = "~/.config/jux/signing.crt"

# Publish signed reports to a jux server.
publish = false
# api_url = "https://jux.example.org/api/v1"
# bearer_token = ""
# api_timeout = 30
# api_max_retries = 3

# Where reports go: "local" archives on this machine, "api" publishes
# without a local copy, "both" does both.
storage_mode = "local"
# storage_path = "~/.local/share/jux"

# Environment variables captured into report metadata. Only names in
# this list are ever recorded.
# env_vars = ["CI", "GITHUB_RUN_ID"]
`

// DefaultPath returns the per-user config file location,
// e.g. ~/.config/jux/config.toml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", domain.ConfigError(fmt.Sprintf("resolving user config directory failed: %v", err))
	}
	return filepath.Join(dir, "jux", "config.toml"), nil
}

// Init writes the commented starter file at path, or at the default
// location when path is empty. An existing file is only replaced with
// force. The file is created private; it may come to hold a bearer
// token.
func Init(path string, force bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return "", domain.ConfigError(fmt.Sprintf("config file already exists: %s", path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", domain.ConfigError(fmt.Sprintf("creating config directory failed: %v", err))
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
		return "", domain.ConfigError(fmt.Sprintf("writing %s failed: %v", path, err))
	}
	return path, nil
}
