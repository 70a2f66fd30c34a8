package config

import (
	"fmt"
	"strings"
	"time"
)

// OptionSpec describes one configuration option for `jux config list`.
type OptionSpec struct {
	Key         string `json:"key" yaml:"key"`
	Type        string `json:"type" yaml:"type"`
	Default     string `json:"default" yaml:"default"`
	EnvVar      string `json:"env_var,omitempty" yaml:"env_var,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// Setting is one effective value with its provenance, for
// `jux config dump`.
type Setting struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source Source `json:"source" yaml:"source"`
}

// optionKeys fixes the display order of options everywhere they are
// listed.
var optionKeys = []string{
	"enabled",
	"sign",
	"publish",
	"storage_mode",
	"storage_path",
	"key_path",
	"cert_path",
	"api_url",
	"bearer_token",
	"api_timeout",
	"api_max_retries",
	"env_vars",
}

// Describe returns the full option schema in display order.
func Describe() []OptionSpec {
	return []OptionSpec{
		{Key: "enabled", Type: "bool", Default: "false", EnvVar: "JUX_ENABLED",
			Description: "master switch for report processing"},
		{Key: "sign", Type: "bool", Default: "false", EnvVar: "JUX_SIGN",
			Description: "sign reports after canonicalization"},
		{Key: "publish", Type: "bool", Default: "false", EnvVar: "JUX_PUBLISH",
			Description: "submit signed reports to the API"},
		{Key: "storage_mode", Type: "enum", Default: string(StorageModeLocal), EnvVar: "JUX_STORAGE_MODE",
			Description: "where reports go: local, api, or both"},
		{Key: "storage_path", Type: "path", Default: "", EnvVar: "JUX_STORAGE_PATH",
			Description: "report archive root, defaults to the per-user data directory"},
		{Key: "key_path", Type: "path", Default: "", EnvVar: "JUX_KEY_PATH",
			Description: "PEM signing key, required when sign is on"},
		{Key: "cert_path", Type: "path", Default: "", EnvVar: "JUX_CERT_PATH",
			Description: "PEM certificate to embed in signatures"},
		{Key: "api_url", Type: "string", Default: "", EnvVar: "JUX_API_URL",
			Description: "publish endpoint base URL"},
		{Key: "bearer_token", Type: "string", Default: "", EnvVar: "JUX_BEARER_TOKEN",
			Description: "API bearer token"},
		{Key: "api_timeout", Type: "int", Default: fmt.Sprintf("%d", int(defaultAPITimeout/time.Second)), EnvVar: "JUX_API_TIMEOUT",
			Description: "publish request timeout in seconds"},
		{Key: "api_max_retries", Type: "int", Default: fmt.Sprintf("%d", defaultAPIMaxRetries), EnvVar: "JUX_API_MAX_RETRIES",
			Description: "publish attempts per report"},
		{Key: "env_vars", Type: "list", Default: "",
			Description: "environment variables captured into report metadata"},
	}
}

// Settings returns the effective values with provenance, in display
// order. The bearer token is redacted; dump output lands in terminals
// and CI logs.
func (c *Config) Settings() []Setting {
	values := map[string]string{
		"enabled":         fmt.Sprintf("%t", c.Enabled),
		"sign":            fmt.Sprintf("%t", c.Sign),
		"publish":         fmt.Sprintf("%t", c.Publish),
		"storage_mode":    string(c.StorageMode),
		"storage_path":    c.StoragePath,
		"key_path":        c.KeyPath,
		"cert_path":       c.CertPath,
		"api_url":         c.APIURL,
		"bearer_token":    redactToken(c.BearerToken),
		"api_timeout":     fmt.Sprintf("%d", int(c.APITimeout/time.Second)),
		"api_max_retries": fmt.Sprintf("%d", c.APIMaxRetries),
		"env_vars":        strings.Join(c.EnvVars, ","),
	}

	settings := make([]Setting, 0, len(optionKeys))
	for _, key := range optionKeys {
		settings = append(settings, Setting{
			Key:    key,
			Value:  values[key],
			Source: c.Source(key),
		})
	}
	return settings
}

func redactToken(token string) string {
	if token == "" {
		return ""
	}
	return "(redacted)"
}
