package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
)

type configCmd struct {
	cmd  *argparse.Command
	path *string
	json *bool
	yaml *bool

	list *argparse.Command
	dump *argparse.Command
	view *argparse.Command
	init *argparse.Command

	force *bool
}

// configListView wraps the option schema for structured output.
type configListView struct {
	Options []configadapter.OptionSpec `json:"options" yaml:"options"`
}

// configDumpView wraps the effective settings for structured output.
type configDumpView struct {
	Settings []configadapter.Setting `json:"settings" yaml:"settings"`
}

func newConfigCommand(parser *argparse.Parser) *configCmd {
	cmd := parser.NewCommand("config", "inspect and manage the configuration")
	c := &configCmd{
		cmd: cmd,
		path: cmd.String("p", "path", &argparse.Options{
			Help: "config file, defaults to the per-user location"}),
		json: cmd.Flag("j", "json", &argparse.Options{
			Help: "machine-readable output"}),
		yaml: cmd.Flag("y", "yaml", &argparse.Options{
			Help: "machine-readable output"}),
	}
	c.list = cmd.NewCommand("list", "list every option with type, default, and env var")
	c.dump = cmd.NewCommand("dump", "show effective values and where each came from")
	c.view = cmd.NewCommand("view", "print the config file as it is on disk")
	c.init = cmd.NewCommand("init", "write a commented starter config")
	c.force = c.init.Flag("f", "force", &argparse.Options{
		Help: "replace an existing file"})
	return c
}

func (a *App) runConfig(c *configCmd, logger *zap.Logger) int {
	format, err := pickFormat(*c.json, *c.yaml)
	if err != nil {
		return a.fail(err)
	}

	switch {
	case c.list.Happened():
		return a.runConfigList(format)
	case c.dump.Happened():
		return a.runConfigDump(format, *c.path, logger)
	case c.view.Happened():
		return a.runConfigView(*c.path)
	case c.init.Happened():
		return a.runConfigInit(*c.path, *c.force)
	}
	fmt.Fprint(a.Stderr, c.cmd.Usage(nil))
	return exitUsage
}

func (a *App) runConfigList(format renderFormat) int {
	options := configadapter.Describe()

	if format != renderHuman {
		if err := render(a.Stdout, format, configListView{Options: options}); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	for _, opt := range options {
		env := opt.EnvVar
		if env == "" {
			env = "-"
		}
		fmt.Fprintf(a.Stdout, "%-16s %-5s default=%q  env=%s\n",
			opt.Key, opt.Type, opt.Default, env)
		fmt.Fprintf(a.Stdout, "    %s\n", opt.Description)
	}
	return exitOK
}

func (a *App) runConfigDump(format renderFormat, path string, logger *zap.Logger) int {
	cfg, err := configadapter.Load(path)
	if err != nil {
		return a.fail(err)
	}
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
		fmt.Fprintf(a.Stderr, "Warning: %s\n", warning)
	}

	if format != renderHuman {
		if err := render(a.Stdout, format, configDumpView{Settings: cfg.Settings()}); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	for _, s := range cfg.Settings() {
		fmt.Fprintf(a.Stdout, "%-16s = %-32q (%s)\n", s.Key, s.Value, s.Source)
	}
	return exitOK
}

// runConfigView prints the file verbatim. A missing file is not an
// error; the defaults are in effect and dump shows them.
func (a *App) runConfigView(path string) int {
	if path == "" {
		defaultPath, err := configadapter.DefaultPath()
		if err != nil {
			return a.fail(err)
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(a.Stdout, "No configuration file found at %s\n", path)
		return exitOK
	}
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Stdout, "# %s\n", path)
	_, _ = a.Stdout.Write(data)
	return exitOK
}

func (a *App) runConfigInit(path string, force bool) int {
	written, err := configadapter.Init(path, force)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Stdout, "Wrote starter config: %s\n", written)
	return exitOK
}
