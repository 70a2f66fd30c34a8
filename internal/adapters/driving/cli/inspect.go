package cli

import (
	"fmt"
	"strings"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/signature"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

type inspectCmd struct {
	cmd   *argparse.Command
	input *string
	json  *bool
	yaml  *bool
}

// inspectView is the machine-readable inspection result.
type inspectView struct {
	Hash      string                `json:"hash" yaml:"hash"`
	Suites    int                   `json:"suites" yaml:"suites"`
	Tests     int                   `json:"tests" yaml:"tests"`
	Failures  int                   `json:"failures" yaml:"failures"`
	Errors    int                   `json:"errors" yaml:"errors"`
	Skipped   int                   `json:"skipped" yaml:"skipped"`
	Time      float64               `json:"time" yaml:"time"`
	Signed    bool                  `json:"signed" yaml:"signed"`
	Signature *domain.SignatureInfo `json:"signature,omitempty" yaml:"signature,omitempty"`
}

func newInspectCommand(parser *argparse.Parser) *inspectCmd {
	cmd := parser.NewCommand("inspect",
		"summarize a report: counts, canonical hash, signature details")
	return &inspectCmd{
		cmd: cmd,
		input: cmd.String("i", "input", &argparse.Options{
			Help: "report to inspect, stdin when omitted"}),
		json: cmd.Flag("j", "json", &argparse.Options{
			Help: "machine-readable output"}),
		yaml: cmd.Flag("y", "yaml", &argparse.Options{
			Help: "machine-readable output"}),
	}
}

func (a *App) runInspect(c *inspectCmd, logger *zap.Logger) int {
	format, err := pickFormat(*c.json, *c.yaml)
	if err != nil {
		return a.fail(err)
	}

	data, err := a.readInput(*c.input)
	if err != nil {
		return a.inspectFail(format, err)
	}

	canon := canonical.NewExcC14NCanonicalizer(canonical.WithLogger(logger))
	doc, err := canon.Load(data)
	if err != nil {
		return a.inspectFail(format, err)
	}
	summary, err := canonical.Summarize(doc)
	if err != nil {
		return a.inspectFail(format, err)
	}
	hash, err := canon.HashDocument(doc)
	if err != nil {
		return a.inspectFail(format, err)
	}
	info, err := signature.NewXMLDsigVerifier(signature.WithVerifierLogger(logger)).Inspect(data)
	if err != nil {
		return a.inspectFail(format, err)
	}

	if format != renderHuman {
		view := inspectView{
			Hash:     hash.String(),
			Suites:   summary.Suites,
			Tests:    summary.Tests,
			Failures: summary.Failures,
			Errors:   summary.Errors,
			Skipped:  summary.Skipped,
			Time:     summary.Time,
			Signed:   info.Present,
		}
		if info.Present {
			view.Signature = &info
		}
		if err := render(a.Stdout, format, view); err != nil {
			return a.fail(err)
		}
		return exitOK
	}

	fmt.Fprintln(a.Stdout, "Test Report Summary")
	fmt.Fprintln(a.Stdout, "===================")
	fmt.Fprintf(a.Stdout, "Suites:   %d\n", summary.Suites)
	fmt.Fprintf(a.Stdout, "Tests:    %d\n", summary.Tests)
	fmt.Fprintf(a.Stdout, "Failures: %d\n", summary.Failures)
	fmt.Fprintf(a.Stdout, "Errors:   %d\n", summary.Errors)
	fmt.Fprintf(a.Stdout, "Skipped:  %d\n", summary.Skipped)
	fmt.Fprintf(a.Stdout, "Time:     %.3fs\n", summary.Time)
	fmt.Fprintln(a.Stdout)
	fmt.Fprintf(a.Stdout, "Canonical Hash: %s\n", hash)
	if !info.Present {
		fmt.Fprintln(a.Stdout, "Signature: None")
		return exitOK
	}
	fmt.Fprintf(a.Stdout, "Signature: Present (%s)\n", algorithmLabel(info.SignatureMethod))
	if info.CertificateSubject != "" {
		fmt.Fprintf(a.Stdout, "Certificate: %s", info.CertificateSubject)
		if info.CertificateNotAfter != nil {
			fmt.Fprintf(a.Stdout, ", expires %s", info.CertificateNotAfter.Format("2006-01-02"))
		}
		fmt.Fprintln(a.Stdout)
	}
	return exitOK
}

// inspectFail reports an inspect failure in the requested shape; the
// structured shapes carry the error object on stdout.
func (a *App) inspectFail(format renderFormat, err error) int {
	if format == renderHuman {
		return a.fail(err)
	}
	_ = render(a.Stdout, format, map[string]domain.ErrorDetail{"error": errorDetail(err)})
	return exitCodeFor(err)
}

// algorithmLabel shortens an XMLDSig algorithm URI to its fragment,
// e.g. "...#rsa-sha256" to "rsa-sha256".
func algorithmLabel(uri string) string {
	if i := strings.LastIndexByte(uri, '#'); i >= 0 && i+1 < len(uri) {
		return uri[i+1:]
	}
	return uri
}
