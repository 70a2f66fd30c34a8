// Package config loads and validates jux runtime configuration.
//
// Values resolve in precedence order: built-in defaults, then a TOML
// file, then JUX_* environment variables. Every value remembers which
// layer set it, so `jux config dump` can show provenance.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// StorageMode selects where processed reports go.
type StorageMode string

const (
	// StorageModeLocal archives reports on the local filesystem only.
	StorageModeLocal StorageMode = "local"

	// StorageModeAPI publishes reports to the API without a local copy.
	StorageModeAPI StorageMode = "api"

	// StorageModeBoth archives locally and publishes.
	StorageModeBoth StorageMode = "both"
)

// Valid reports whether the mode is one of the supported values.
func (m StorageMode) Valid() bool {
	switch m {
	case StorageModeLocal, StorageModeAPI, StorageModeBoth:
		return true
	}
	return false
}

// Source names the layer a configuration value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
)

const (
	defaultAPITimeout    = 30 * time.Second
	defaultAPIMaxRetries = 3

	maxAPITimeout    = 10 * time.Minute
	maxAPIMaxRetries = 10
)

// Config is the effective jux configuration.
type Config struct {
	// Enabled is the master switch for report processing.
	Enabled bool

	// Sign controls whether canonicalized reports are signed.
	Sign bool

	// Publish controls whether signed reports are submitted to the API.
	Publish bool

	// StorageMode selects local archive, API submission, or both.
	StorageMode StorageMode

	// StoragePath overrides the per-user data directory.
	StoragePath string

	// KeyPath is the signing key, required when Sign is on.
	KeyPath string

	// CertPath is the optional signing certificate.
	CertPath string

	// APIURL is the publish endpoint base, e.g. "https://jux.example.org/api/v1".
	APIURL string

	// BearerToken authenticates against the API.
	BearerToken string

	// APITimeout bounds each publish request.
	APITimeout time.Duration

	// APIMaxRetries bounds publish attempts per report.
	APIMaxRetries int

	// EnvVars is the allow-list of environment variables captured into
	// report metadata.
	EnvVars []string

	sources map[string]Source
}

// fileSchema mirrors the [jux] table of a config file. api_timeout is in
// seconds, matching the wire-facing knobs.
type fileSchema struct {
	Jux struct {
		Enabled       *bool    `toml:"enabled"`
		Sign          *bool    `toml:"sign"`
		Publish       *bool    `toml:"publish"`
		StorageMode   *string  `toml:"storage_mode"`
		StoragePath   *string  `toml:"storage_path"`
		KeyPath       *string  `toml:"key_path"`
		CertPath      *string  `toml:"cert_path"`
		APIURL        *string  `toml:"api_url"`
		BearerToken   *string  `toml:"bearer_token"`
		APITimeout    *int     `toml:"api_timeout"`
		APIMaxRetries *int     `toml:"api_max_retries"`
		EnvVars       []string `toml:"env_vars"`
	} `toml:"jux"`
}

// Default returns the built-in configuration: everything off, local
// storage, conservative API limits.
func Default() *Config {
	cfg := &Config{
		StorageMode:   StorageModeLocal,
		APITimeout:    defaultAPITimeout,
		APIMaxRetries: defaultAPIMaxRetries,
		sources:       make(map[string]Source),
	}
	for _, key := range optionKeys {
		cfg.sources[key] = SourceDefault
	}
	return cfg
}

// Load resolves the full precedence chain: defaults, then the file at
// path when one exists, then the environment. An empty path means the
// default location; a missing file there is not an error, a missing
// explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.ApplyFile(path); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, domain.ConfigError(fmt.Sprintf("config file not found: %s", path))
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFile merges the [jux] table of a TOML file over the current
// values. Keys the file does not set are left alone; keys it does set
// are attributed to the file layer.
func (c *Config) ApplyFile(path string) error {
	var file fileSchema
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return domain.ConfigError(fmt.Sprintf("parsing %s failed: %v", path, err))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return domain.ConfigError(
			fmt.Sprintf("unknown configuration key %q in %s", undecoded[0].String(), path))
	}

	jux := file.Jux
	if jux.Enabled != nil {
		c.set("enabled", SourceFile, func() { c.Enabled = *jux.Enabled })
	}
	if jux.Sign != nil {
		c.set("sign", SourceFile, func() { c.Sign = *jux.Sign })
	}
	if jux.Publish != nil {
		c.set("publish", SourceFile, func() { c.Publish = *jux.Publish })
	}
	if jux.StorageMode != nil {
		c.set("storage_mode", SourceFile, func() { c.StorageMode = StorageMode(*jux.StorageMode) })
	}
	if jux.StoragePath != nil {
		c.set("storage_path", SourceFile, func() { c.StoragePath = expandUser(*jux.StoragePath) })
	}
	if jux.KeyPath != nil {
		c.set("key_path", SourceFile, func() { c.KeyPath = expandUser(*jux.KeyPath) })
	}
	if jux.CertPath != nil {
		c.set("cert_path", SourceFile, func() { c.CertPath = expandUser(*jux.CertPath) })
	}
	if jux.APIURL != nil {
		c.set("api_url", SourceFile, func() { c.APIURL = *jux.APIURL })
	}
	if jux.BearerToken != nil {
		c.set("bearer_token", SourceFile, func() { c.BearerToken = *jux.BearerToken })
	}
	if jux.APITimeout != nil {
		c.set("api_timeout", SourceFile, func() { c.APITimeout = time.Duration(*jux.APITimeout) * time.Second })
	}
	if jux.APIMaxRetries != nil {
		c.set("api_max_retries", SourceFile, func() { c.APIMaxRetries = *jux.APIMaxRetries })
	}
	if md.IsDefined("jux", "env_vars") {
		c.set("env_vars", SourceFile, func() { c.EnvVars = jux.EnvVars })
	}
	return nil
}

// ApplyEnv merges JUX_* variables over the current values. Values that
// do not parse are skipped rather than failing the load, so one stray
// variable cannot take the whole test run down.
func (c *Config) ApplyEnv() {
	if v, ok := envBool("JUX_ENABLED"); ok {
		c.set("enabled", SourceEnv, func() { c.Enabled = v })
	}
	if v, ok := envBool("JUX_SIGN"); ok {
		c.set("sign", SourceEnv, func() { c.Sign = v })
	}
	if v, ok := envBool("JUX_PUBLISH"); ok {
		c.set("publish", SourceEnv, func() { c.Publish = v })
	}
	if v := os.Getenv("JUX_STORAGE_MODE"); v != "" && StorageMode(v).Valid() {
		c.set("storage_mode", SourceEnv, func() { c.StorageMode = StorageMode(v) })
	}
	if v := os.Getenv("JUX_STORAGE_PATH"); v != "" {
		c.set("storage_path", SourceEnv, func() { c.StoragePath = expandUser(v) })
	}
	if v := os.Getenv("JUX_KEY_PATH"); v != "" {
		c.set("key_path", SourceEnv, func() { c.KeyPath = expandUser(v) })
	}
	if v := os.Getenv("JUX_CERT_PATH"); v != "" {
		c.set("cert_path", SourceEnv, func() { c.CertPath = expandUser(v) })
	}
	if v := os.Getenv("JUX_API_URL"); v != "" {
		c.set("api_url", SourceEnv, func() { c.APIURL = v })
	}
	if v := os.Getenv("JUX_BEARER_TOKEN"); v != "" {
		c.set("bearer_token", SourceEnv, func() { c.BearerToken = v })
	}
	if v, ok := envSeconds("JUX_API_TIMEOUT"); ok {
		c.set("api_timeout", SourceEnv, func() { c.APITimeout = v })
	}
	if v, ok := envInt("JUX_API_MAX_RETRIES"); ok {
		c.set("api_max_retries", SourceEnv, func() { c.APIMaxRetries = v })
	}
}

// Validate checks types and ranges. Cross-field completeness (a key for
// signing, a URL for publishing) is reported by Warnings instead, since
// a config can be valid before it is complete.
func (c *Config) Validate() error {
	if !c.StorageMode.Valid() {
		return domain.ConfigError(
			fmt.Sprintf("invalid storage_mode %q: must be local, api, or both", c.StorageMode))
	}
	if c.APITimeout <= 0 || c.APITimeout > maxAPITimeout {
		return domain.ConfigError(
			fmt.Sprintf("api_timeout %s out of range: must be between 1s and %s", c.APITimeout, maxAPITimeout))
	}
	if c.APIMaxRetries < 1 || c.APIMaxRetries > maxAPIMaxRetries {
		return domain.ConfigError(
			fmt.Sprintf("api_max_retries %d out of range: must be between 1 and %d", c.APIMaxRetries, maxAPIMaxRetries))
	}
	return nil
}

// Warnings lists configured intentions that are missing what they need
// to work at runtime.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Sign && c.KeyPath == "" {
		warnings = append(warnings, "sign is enabled but key_path is not set")
	}
	if c.Publish && c.APIURL == "" {
		warnings = append(warnings, "publish is enabled but api_url is not set")
	}
	if (c.StorageMode == StorageModeAPI || c.StorageMode == StorageModeBoth) && c.APIURL == "" {
		warnings = append(warnings, fmt.Sprintf("storage_mode %q requires api_url", c.StorageMode))
	}
	if c.Publish && !c.Sign {
		warnings = append(warnings, "publish is enabled without sign; servers may reject unsigned reports")
	}
	return warnings
}

// Source reports which layer set the named option.
func (c *Config) Source(key string) Source {
	if s, ok := c.sources[key]; ok {
		return s
	}
	return SourceDefault
}

func (c *Config) set(key string, source Source, assign func()) {
	assign()
	c.sources[key] = source
}

// expandUser resolves a leading ~/ against the home directory, so paths
// written in a config file work the way shells make people expect.
func expandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func envBool(name string) (bool, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, false
	}
	return v, true
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envSeconds(name string) (time.Duration, bool) {
	v, ok := envInt(name)
	if !ok || v <= 0 {
		return 0, false
	}
	return time.Duration(v) * time.Second, true
}
