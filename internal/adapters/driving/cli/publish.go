package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/api"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/envinfo"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/signature"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/storage"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

type publishCmd struct {
	cmd         *argparse.Command
	input       *string
	queue       *bool
	apiURL      *string
	bearerToken *string
	timeout     *int
	maxRetries  *int
	storagePath *string
	dryRun      *bool
	json        *bool
}

// publishView is the structured outcome of a publish run. Success means
// every report went through; duplicates the server already had count as
// published.
type publishView struct {
	Success   bool                `json:"success"`
	Published int                 `json:"published"`
	Failed    int                 `json:"failed"`
	DryRun    bool                `json:"dry_run,omitempty"`
	Message   string              `json:"message,omitempty"`
	Results   []publishResultView `json:"results"`
}

type publishResultView struct {
	Hash      string `json:"hash,omitempty"`
	File      string `json:"file,omitempty"`
	TestRunID string `json:"test_run_id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
}

// name returns the label per-item output identifies the report by.
func (r publishResultView) name() string {
	if r.File != "" {
		return r.File
	}
	return r.Hash
}

func newPublishCommand(parser *argparse.Parser) *publishCmd {
	cmd := parser.NewCommand("publish", "submit signed reports to the collection API")
	return &publishCmd{
		cmd: cmd,
		input: cmd.String("i", "input", &argparse.Options{
			Help: "report file to publish"}),
		queue: cmd.Flag("q", "queue", &argparse.Options{
			Help: "publish every report in the local spool"}),
		apiURL: cmd.String("u", "api-url", &argparse.Options{
			Help: "API base URL, e.g. https://jux.example.org/api/v1"}),
		bearerToken: cmd.String("t", "bearer-token", &argparse.Options{
			Help: "bearer token for the API"}),
		timeout: cmd.Int("", "timeout", &argparse.Options{
			Help: "per-request timeout in seconds"}),
		maxRetries: cmd.Int("", "max-retries", &argparse.Options{
			Help: "attempts per report before giving up"}),
		storagePath: cmd.String("s", "storage-path", &argparse.Options{
			Help: "archive root, defaults to the per-user data directory"}),
		dryRun: cmd.Flag("n", "dry-run", &argparse.Options{
			Help: "report what would be published without publishing"}),
		json: cmd.Flag("j", "json", &argparse.Options{
			Help: "machine-readable output"}),
	}
}

func (a *App) runPublish(c *publishCmd, verbose bool, logger *zap.Logger) int {
	if *c.input != "" && *c.queue {
		return a.fail(domain.UsageError("--input and --queue are mutually exclusive"))
	}
	if *c.input == "" && !*c.queue {
		return a.fail(domain.UsageError("one of --input or --queue is required"))
	}

	cfg, err := configadapter.Load("")
	if err != nil {
		return a.fail(err)
	}
	apiURL := *c.apiURL
	if apiURL == "" {
		apiURL = cfg.APIURL
	}
	if apiURL == "" {
		return a.fail(domain.UsageError("--api-url is required (or api_url in the config)"))
	}

	var client *api.Client
	if !*c.dryRun {
		client, err = a.newAPIClient(c, cfg, apiURL, logger)
		if err != nil {
			return a.fail(err)
		}
	}

	var view publishView
	if *c.input != "" {
		view = a.publishFile(client, *c.input, *c.dryRun)
	} else {
		view, err = a.publishQueue(client, *c.storagePath, *c.dryRun, logger)
		if err != nil {
			return a.fail(err)
		}
	}
	return a.publishOutcome(view, *c.json, verbose)
}

func (a *App) newAPIClient(c *publishCmd, cfg *configadapter.Config, apiURL string, logger *zap.Logger) (*api.Client, error) {
	token := *c.bearerToken
	if token == "" {
		token = cfg.BearerToken
	}
	timeout := cfg.APITimeout
	if *c.timeout > 0 {
		timeout = time.Duration(*c.timeout) * time.Second
	}
	attempts := cfg.APIMaxRetries
	if *c.maxRetries > 0 {
		attempts = *c.maxRetries
	}
	opts := []api.Option{
		api.WithTimeout(timeout),
		api.WithMaxAttempts(attempts),
		api.WithLogger(logger),
	}
	if token != "" {
		opts = append(opts, api.WithBearerToken(token))
	}
	return api.NewClient(apiURL, opts...)
}

// publishFile submits a single report file. Read failures become a
// per-item result, not a hard error, so --json callers always get the
// same shape.
func (a *App) publishFile(client *api.Client, path string, dryRun bool) publishView {
	data, err := os.ReadFile(path)
	if err != nil {
		return finishView(publishView{Results: []publishResultView{{
			File:  path,
			Error: fmt.Sprintf("report not found: %s", path),
		}}})
	}
	if dryRun {
		return finishView(publishView{
			DryRun:  true,
			Message: fmt.Sprintf("Dry run: would publish %s", path),
		})
	}
	result := a.publishOne(client, data, publishResultView{File: path})
	return finishView(publishView{Results: []publishResultView{result}})
}

// publishQueue submits every spooled report, archiving and dequeuing the
// ones the server accepted (or already had).
func (a *App) publishQueue(client *api.Client, storageRoot string, dryRun bool, logger *zap.Logger) (publishView, error) {
	store, err := a.openStore(storageRoot, logger)
	if err != nil {
		return publishView{}, err
	}
	queued, err := store.ListQueued()
	if err != nil {
		return publishView{}, err
	}
	if len(queued) == 0 {
		return finishView(publishView{Message: "No reports in queue."}), nil
	}
	if dryRun {
		return finishView(publishView{
			DryRun:  true,
			Message: fmt.Sprintf("Dry run: would publish %d queued report(s).", len(queued)),
		}), nil
	}

	view := publishView{}
	for _, hash := range queued {
		result := publishResultView{Hash: hash.String()}
		report, err := store.GetQueued(hash)
		if err != nil {
			result.Error = err.Error()
			view.Results = append(view.Results, result)
			continue
		}
		result = a.publishOne(client, report, result)
		if result.Error == "" {
			// A report the server has is done either way; losing the
			// local archive step must not resubmit it forever.
			if err := archivePublished(store, report, hash, logger); err != nil {
				logger.Warn("published report not archived",
					zap.String("hash", hash.String()), zap.Error(err))
			}
		}
		view.Results = append(view.Results, result)
	}
	return finishView(view), nil
}

// publishOne submits one report and folds the outcome into result. A
// duplicate response counts as published.
func (a *App) publishOne(client *api.Client, report []byte, result publishResultView) publishResultView {
	receipt, err := client.Publish(context.Background(), report)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code == domain.ErrCodeDuplicateReport {
			result.Duplicate = true
			return result
		}
		result.Error = err.Error()
		return result
	}
	result.TestRunID = receipt.TestRunID
	return result
}

// archivePublished moves a spooled report into the archive: summary and
// signature re-derived from the stored bytes, environment captured now.
func archivePublished(store *storage.FileReportStore, report []byte, hash domain.CanonicalHash, logger *zap.Logger) error {
	canon := canonical.NewExcC14NCanonicalizer(canonical.WithLogger(logger))
	doc, err := canon.Load(report)
	if err != nil {
		return err
	}
	summary, err := canonical.Summarize(doc)
	if err != nil {
		return err
	}
	verifier := signature.NewXMLDsigVerifier(signature.WithVerifierLogger(logger))
	signed, err := verifier.HasSignature(report)
	if err != nil {
		return err
	}
	meta := domain.ReportMetadata{
		Hash:        hash,
		StoredAt:    time.Now().UTC(),
		Signed:      signed,
		Summary:     summary,
		Environment: envinfo.NewCapturer(envinfo.WithLogger(logger)).Capture(context.Background()),
	}
	if err := store.Store(report, meta); err != nil {
		return err
	}
	return store.Dequeue(hash)
}

// finishView fills the derived fields so every return path agrees.
func finishView(view publishView) publishView {
	view.Published, view.Failed = 0, 0
	for _, r := range view.Results {
		if r.Error != "" {
			view.Failed++
		} else {
			view.Published++
		}
	}
	view.Success = view.Failed == 0
	if view.Results == nil {
		view.Results = []publishResultView{}
	}
	return view
}

// publishOutcome renders the view and maps it to the exit code: 0 when
// everything published, 1 when anything failed.
func (a *App) publishOutcome(view publishView, asJSON, verbose bool) int {
	if asJSON {
		if err := render(a.Stdout, renderJSON, view); err != nil {
			return a.fail(err)
		}
	} else {
		if view.Message != "" {
			fmt.Fprintln(a.Stdout, view.Message)
		}
		for _, r := range view.Results {
			switch {
			case r.Error != "":
				fmt.Fprintf(a.Stdout, "✗ %s failed: %s\n", r.name(), r.Error)
			case r.Duplicate:
				fmt.Fprintf(a.Stdout, "✓ %s already published (duplicate)\n", r.name())
			default:
				fmt.Fprintf(a.Stdout, "✓ %s published successfully\n", r.name())
				if verbose && r.TestRunID != "" {
					fmt.Fprintf(a.Stdout, "  Test run ID: %s\n", r.TestRunID)
				}
			}
		}
		if !view.DryRun && len(view.Results) > 0 {
			fmt.Fprintf(a.Stdout, "Published %d report(s), %d failed.\n",
				view.Published, view.Failed)
		}
	}
	if view.Failed > 0 {
		return exitError
	}
	return exitOK
}
