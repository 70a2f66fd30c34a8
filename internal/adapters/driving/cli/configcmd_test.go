//go:build unit

package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
)

func TestConfigList_Human(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI("", "config", "list")

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, want := range []string{"api_url", "JUX_API_URL", "publish endpoint base URL"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in listing, got: %s", want, stdout)
		}
	}
}

func TestConfigList_JSON(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI("", "config", "list", "--json")

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var view struct {
		Options []configadapter.OptionSpec `json:"options"`
	}
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout, err)
	}
	if len(view.Options) != len(configadapter.Describe()) {
		t.Fatalf("expected %d options, got %d", len(configadapter.Describe()), len(view.Options))
	}
	if view.Options[0].Key != "enabled" {
		t.Errorf("expected enabled first, got %q", view.Options[0].Key)
	}
}

func TestConfigDump_Defaults(t *testing.T) {
	isolate(t)

	code, stdout, stderr := runCLI("", "config", "dump")

	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "storage_mode") || !strings.Contains(stdout, `"local"`) {
		t.Errorf("expected the default storage_mode, got: %s", stdout)
	}
	if !strings.Contains(stdout, "(default)") {
		t.Errorf("expected default provenance, got: %s", stdout)
	}
}

func TestConfigDump_FileValuesAndRedaction(t *testing.T) {
	isolate(t)
	cfgPath := writeFile(t, t.TempDir(), "config.toml",
		"[jux]\napi_url = \"https://jux.example.org/api/v1\"\nbearer_token = \"hunter2\"\n")

	code, stdout, _ := runCLI("", "config", "dump", "--path", cfgPath)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "https://jux.example.org/api/v1") {
		t.Errorf("expected the file value, got: %s", stdout)
	}
	if !strings.Contains(stdout, "(file)") {
		t.Errorf("expected file provenance, got: %s", stdout)
	}
	if strings.Contains(stdout, "hunter2") {
		t.Errorf("bearer token leaked into dump output: %s", stdout)
	}
	if !strings.Contains(stdout, "(redacted)") {
		t.Errorf("expected the token redacted, got: %s", stdout)
	}
}

func TestConfigDump_WarnsOnIncompleteConfig(t *testing.T) {
	isolate(t)
	cfgPath := writeFile(t, t.TempDir(), "config.toml", "[jux]\nsign = true\n")

	code, _, stderr := runCLI("", "config", "dump", "--path", cfgPath)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stderr, "Warning: sign is enabled but key_path is not set") {
		t.Errorf("expected a warning on stderr, got: %s", stderr)
	}
}

func TestConfigDump_JSON(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI("", "config", "dump", "--json")

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var view struct {
		Settings []configadapter.Setting `json:"settings"`
	}
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", stdout, err)
	}
	found := false
	for _, s := range view.Settings {
		if s.Key == "storage_mode" {
			found = true
			if s.Value != "local" || s.Source != configadapter.SourceDefault {
				t.Errorf("unexpected storage_mode setting: %+v", s)
			}
		}
	}
	if !found {
		t.Errorf("storage_mode missing from settings: %+v", view.Settings)
	}
}

func TestConfigView_NoFile(t *testing.T) {
	isolate(t)

	code, stdout, _ := runCLI("", "config", "view")

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "No configuration file found at ") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestConfigView_PrintsFile(t *testing.T) {
	isolate(t)
	content := "[jux]\nenabled = true\n"
	cfgPath := writeFile(t, t.TempDir(), "config.toml", content)

	code, stdout, _ := runCLI("", "config", "view", "--path", cfgPath)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(stdout, "# "+cfgPath+"\n") {
		t.Errorf("expected the path header, got: %s", stdout)
	}
	if !strings.Contains(stdout, content) {
		t.Errorf("expected the file contents verbatim, got: %s", stdout)
	}
}

func TestConfigInit_WritesStarter(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	code, stdout, _ := runCLI("", "config", "init", "--path", cfgPath)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "Wrote starter config: "+cfgPath) {
		t.Errorf("unexpected output: %s", stdout)
	}
	info, err := os.Stat(cfgPath)
	if err != nil {
		t.Fatalf("starter config not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to read starter config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# jux configuration") {
		t.Errorf("unexpected starter header: %s", data)
	}
}

func TestConfigInit_RefusesToOverwrite(t *testing.T) {
	isolate(t)
	cfgPath := writeFile(t, t.TempDir(), "config.toml", "[jux]\n")

	code, _, stderr := runCLI("", "config", "init", "--path", cfgPath)
	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Errorf("unexpected stderr: %s", stderr)
	}

	code, stdout, _ := runCLI("", "config", "init", "--path", cfgPath, "--force")
	if code != 0 {
		t.Fatalf("expected --force to succeed, got %d", code)
	}
	if !strings.Contains(stdout, "Wrote starter config: "+cfgPath) {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestConfig_RejectsBothFormats(t *testing.T) {
	isolate(t)

	code, _, stderr := runCLI("", "config", "list", "--json", "--yaml")

	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, "--json and --yaml are mutually exclusive") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestConfig_NoSubcommandPrintsUsage(t *testing.T) {
	isolate(t)

	code, _, stderr := runCLI("", "config")

	if code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, "list") || !strings.Contains(stderr, "init") {
		t.Errorf("expected subcommands in usage, got: %s", stderr)
	}
}
