// Package cli implements the jux command line: key generation, report
// signing and verification, inspection, the local report archive,
// publishing, and configuration management. Each command maps parsed
// flags to a process exit code and writes through injectable streams, so
// the command suites drive Run directly instead of forking a binary.
//
// Exit codes follow domain.ErrorCode.ExitCode: 0 success, 1 operational
// failure, 2 usage or configuration mistake.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/storage"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// storagePathEnv overrides the archive root without a flag, mirroring the
// storage_path config key.
const storagePathEnv = "JUX_STORAGE_PATH"

// App wires the command tree to its input and output streams.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an App bound to the process streams.
func New() *App {
	return &App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run parses argv (program name first, as in os.Args) and executes the
// selected command. It never calls os.Exit; the caller owns the process.
func (a *App) Run(argv []string) int {
	parser := argparse.NewParser("jux",
		"tamper-evident JUnit test reports: sign, verify, archive, publish")

	verbose := parser.Flag("v", "verbose", &argparse.Options{
		Help: "log progress to stderr"})

	keygen := newKeygenCommand(parser)
	sign := newSignCommand(parser)
	verify := newVerifyCommand(parser)
	inspect := newInspectCommand(parser)
	cache := newCacheCommand(parser)
	publish := newPublishCommand(parser)
	cfg := newConfigCommand(parser)

	// Help is answered before parsing: argparse's built-in help path
	// prints to the process stdout, which the command suites cannot
	// capture. DisableHelp must run after every NewCommand.
	parser.DisableHelp()
	if wantsHelp(argv) {
		fmt.Fprint(a.Stdout, helpUsage(argv, parser, map[string]*argparse.Command{
			"keygen":  keygen.cmd,
			"sign":    sign.cmd,
			"verify":  verify.cmd,
			"inspect": inspect.cmd,
			"cache":   cache.cmd,
			"publish": publish.cmd,
			"config":  cfg.cmd,
		}))
		return exitOK
	}

	if err := parser.Parse(argv); err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		fmt.Fprint(a.Stderr, parser.Usage(nil))
		return exitUsage
	}

	logger := a.newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	switch {
	case keygen.cmd.Happened():
		return a.runKeygen(keygen, logger)
	case sign.cmd.Happened():
		return a.runSign(sign, logger)
	case verify.cmd.Happened():
		return a.runVerify(verify, logger)
	case inspect.cmd.Happened():
		return a.runInspect(inspect, logger)
	case cache.cmd.Happened():
		return a.runCache(cache, logger)
	case publish.cmd.Happened():
		return a.runPublish(publish, *verbose, logger)
	case cfg.cmd.Happened():
		return a.runConfig(cfg, logger)
	}

	fmt.Fprint(a.Stderr, parser.Usage(nil))
	return exitUsage
}

// wantsHelp scans argv for the help flags the parser no longer owns.
func wantsHelp(argv []string) bool {
	for _, arg := range argv[1:] {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// helpUsage picks the most specific usage text for the arguments seen so
// far: a known command name selects that command's usage.
func helpUsage(argv []string, parser *argparse.Parser, byName map[string]*argparse.Command) string {
	if len(argv) > 1 {
		if cmd, ok := byName[argv[1]]; ok {
			return cmd.Usage(nil)
		}
	}
	return parser.Usage(nil)
}

// newLogger returns a console logger on stderr when verbose, a nop
// otherwise. Human output is the command's own; the logger carries the
// adapter-level detail.
func (a *App) newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(a.Stderr), zapcore.DebugLevel))
}

// fail reports err on stderr and maps it to its exit code.
func (a *App) fail(err error) int {
	fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	return exitCodeFor(err)
}

// exitCodeFor maps an error to the process exit code. Errors outside the
// AppError taxonomy count as operational failures.
func exitCodeFor(err error) int {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Code.ExitCode()
	}
	return exitError
}

// readInput reads the report from path, or from stdin when path is empty.
func (a *App) readInput(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(a.Stdin)
		if err != nil {
			return nil, domain.FileAccessError("failed to read stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.FileAccessError(fmt.Sprintf("failed to read %s", path), err)
	}
	return data, nil
}

// openStore opens the report archive. The root comes from the flag, the
// JUX_STORAGE_PATH override, the storage_path config key, or the
// per-user default, in that order.
func (a *App) openStore(root string, logger *zap.Logger) (*storage.FileReportStore, error) {
	if root == "" {
		root = os.Getenv(storagePathEnv)
	}
	if root == "" {
		cfg, err := configadapter.Load("")
		if err != nil {
			return nil, err
		}
		root = cfg.StoragePath
	}
	return storage.NewFileReportStore(root, storage.WithLogger(logger))
}
