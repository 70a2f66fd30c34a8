package cli

import (
	"fmt"
	"time"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/storage"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

type cacheCmd struct {
	cmd         *argparse.Command
	storagePath *string
	json        *bool
	yaml        *bool

	list  *argparse.Command
	show  *argparse.Command
	stats *argparse.Command
	clean *argparse.Command

	hash   *string
	days   *int
	dryRun *bool
}

// cacheListView wraps the archived reports for structured output.
type cacheListView struct {
	Reports []domain.ReportMetadata `json:"reports" yaml:"reports"`
}

// cacheShowView pairs one report's metadata with its stored XML.
type cacheShowView struct {
	Hash     string                `json:"hash" yaml:"hash"`
	Metadata domain.ReportMetadata `json:"metadata" yaml:"metadata"`
	Report   string                `json:"report" yaml:"report"`
}

// cacheStatsView flattens StorageStats under the wire names scripts use.
type cacheStatsView struct {
	TotalReports  int        `json:"total_reports" yaml:"total_reports"`
	QueuedReports int        `json:"queued_reports" yaml:"queued_reports"`
	TotalSize     int64      `json:"total_size" yaml:"total_size"`
	Oldest        *time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest        *time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}

// cacheCleanView reports what clean removed, or would remove.
type cacheCleanView struct {
	DryRun  bool     `json:"dry_run" yaml:"dry_run"`
	Removed []string `json:"removed" yaml:"removed"`
}

func newCacheCommand(parser *argparse.Parser) *cacheCmd {
	cmd := parser.NewCommand("cache", "manage the local report archive")
	c := &cacheCmd{
		cmd: cmd,
		storagePath: cmd.String("s", "storage-path", &argparse.Options{
			Help: "archive root, defaults to the per-user data directory"}),
		json: cmd.Flag("j", "json", &argparse.Options{
			Help: "machine-readable output"}),
		yaml: cmd.Flag("y", "yaml", &argparse.Options{
			Help: "machine-readable output"}),
	}
	c.list = cmd.NewCommand("list", "list archived reports")
	c.show = cmd.NewCommand("show", "show one archived report")
	c.hash = c.show.String("", "hash", &argparse.Options{
		Help: "report hash, e.g. sha256:..."})
	c.stats = cmd.NewCommand("stats", "archive and spool statistics")
	c.clean = cmd.NewCommand("clean", "remove reports older than a cutoff")
	c.days = c.clean.Int("d", "days", &argparse.Options{
		Default: 30, Help: "age cutoff in days"})
	c.dryRun = c.clean.Flag("n", "dry-run", &argparse.Options{
		Help: "report what would be removed without removing"})
	return c
}

func (a *App) runCache(c *cacheCmd, logger *zap.Logger) int {
	format, err := pickFormat(*c.json, *c.yaml)
	if err != nil {
		return a.fail(err)
	}
	store, err := a.openStore(*c.storagePath, logger)
	if err != nil {
		return a.fail(err)
	}

	switch {
	case c.list.Happened():
		return a.runCacheList(store, format)
	case c.show.Happened():
		return a.runCacheShow(store, format, *c.hash)
	case c.stats.Happened():
		return a.runCacheStats(store, format)
	case c.clean.Happened():
		return a.runCacheClean(store, format, *c.days, *c.dryRun)
	}
	fmt.Fprint(a.Stderr, c.cmd.Usage(nil))
	return exitUsage
}

func (a *App) runCacheList(store *storage.FileReportStore, format renderFormat) int {
	reports, err := store.List()
	if err != nil {
		return a.fail(err)
	}

	if format != renderHuman {
		view := cacheListView{Reports: reports}
		if view.Reports == nil {
			view.Reports = []domain.ReportMetadata{}
		}
		if err := render(a.Stdout, format, view); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	if len(reports) == 0 {
		fmt.Fprintln(a.Stdout, "No cached reports found.")
		return exitOK
	}
	for _, meta := range reports {
		fmt.Fprintf(a.Stdout, "%s  %s  %d tests, %d failed\n",
			meta.Hash, meta.StoredAt.Format(time.RFC3339),
			meta.Summary.Tests, meta.Summary.Failures)
	}
	fmt.Fprintf(a.Stdout, "%d report(s)\n", len(reports))
	return exitOK
}

func (a *App) runCacheShow(store *storage.FileReportStore, format renderFormat, hash string) int {
	if hash == "" {
		return a.fail(domain.UsageError("--hash is required for cache show"))
	}
	h, err := domain.ParseCanonicalHash(hash)
	if err != nil {
		return a.fail(err)
	}
	meta, err := store.GetMetadata(h)
	if err != nil {
		return a.fail(err)
	}
	report, err := store.Get(h)
	if err != nil {
		return a.fail(err)
	}

	if format != renderHuman {
		view := cacheShowView{Hash: h.String(), Metadata: meta, Report: string(report)}
		if err := render(a.Stdout, format, view); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	fmt.Fprintf(a.Stdout, "Hash:      %s\n", meta.Hash)
	fmt.Fprintf(a.Stdout, "Stored At: %s\n", meta.StoredAt.Format(time.RFC3339))
	fmt.Fprintf(a.Stdout, "Signed:    %t\n", meta.Signed)
	fmt.Fprintf(a.Stdout, "Tests:     %d (%d failed, %d errors, %d skipped)\n",
		meta.Summary.Tests, meta.Summary.Failures, meta.Summary.Errors, meta.Summary.Skipped)
	env := meta.Environment
	fmt.Fprintf(a.Stdout, "Host:      %s (%s on %s)\n", env.Hostname, env.Username, env.Platform)
	if env.ProjectName != "" {
		fmt.Fprintf(a.Stdout, "Project:   %s\n", env.ProjectName)
	}
	if env.GitCommit != "" {
		fmt.Fprintf(a.Stdout, "Commit:    %s\n", env.GitCommit)
	}
	return exitOK
}

func (a *App) runCacheStats(store *storage.FileReportStore, format renderFormat) int {
	stats, err := store.Stats()
	if err != nil {
		return a.fail(err)
	}

	if format != renderHuman {
		view := cacheStatsView{
			TotalReports:  stats.Count,
			QueuedReports: stats.QueuedCount,
			TotalSize:     stats.TotalBytes,
		}
		if stats.Count > 0 {
			oldest, newest := stats.Oldest, stats.Newest
			view.Oldest, view.Newest = &oldest, &newest
		}
		if err := render(a.Stdout, format, view); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	fmt.Fprintf(a.Stdout, "%d report(s) archived, %d queued for publishing\n",
		stats.Count, stats.QueuedCount)
	fmt.Fprintf(a.Stdout, "Total size: %s\n", humanBytes(stats.TotalBytes))
	if stats.Count > 0 {
		fmt.Fprintf(a.Stdout, "Oldest:     %s\n", stats.Oldest.Format(time.RFC3339))
		fmt.Fprintf(a.Stdout, "Newest:     %s\n", stats.Newest.Format(time.RFC3339))
	}
	return exitOK
}

func (a *App) runCacheClean(store *storage.FileReportStore, format renderFormat, days int, dryRun bool) int {
	if days < 0 {
		return a.fail(domain.UsageError("--days must not be negative"))
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := store.Clean(cutoff, dryRun)
	if err != nil {
		return a.fail(err)
	}

	if format != renderHuman {
		view := cacheCleanView{DryRun: dryRun, Removed: make([]string, 0, len(removed))}
		for _, h := range removed {
			view.Removed = append(view.Removed, h.String())
		}
		if err := render(a.Stdout, format, view); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	switch {
	case len(removed) == 0:
		fmt.Fprintf(a.Stdout, "No reports older than %d day(s).\n", days)
	case dryRun:
		fmt.Fprintf(a.Stdout, "Dry run: would remove %d report(s):\n", len(removed))
		for _, h := range removed {
			fmt.Fprintf(a.Stdout, "  %s\n", h)
		}
	default:
		fmt.Fprintf(a.Stdout, "Removed %d report(s).\n", len(removed))
	}
	return exitOK
}

// humanBytes renders n in binary units, one decimal above bytes.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
