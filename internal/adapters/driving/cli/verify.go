package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/keys"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/signature"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// certPathEnv supplies the verification certificate when --cert is not
// given, so CI pipelines configure it once.
const certPathEnv = "JUX_CERT_PATH"

type verifyCmd struct {
	cmd    *argparse.Command
	input  *string
	cert   *string
	pubkey *string
	quiet  *bool
	json   *bool
}

func newVerifyCommand(parser *argparse.Parser) *verifyCmd {
	cmd := parser.NewCommand("verify", "verify the XML signature on a report")
	return &verifyCmd{
		cmd: cmd,
		input: cmd.String("i", "input", &argparse.Options{
			Help: "signed report, stdin when omitted"}),
		cert: cmd.String("c", "cert", &argparse.Options{
			Help: "PEM certificate to verify against (or " + certPathEnv + ")"}),
		pubkey: cmd.String("p", "pubkey", &argparse.Options{
			Help: "PEM public key to verify against"}),
		quiet: cmd.Flag("q", "quiet", &argparse.Options{
			Help: "no output, exit code only"}),
		json: cmd.Flag("j", "json", &argparse.Options{
			Help: "print a machine-readable verdict"}),
	}
}

func (a *App) runVerify(c *verifyCmd, logger *zap.Logger) int {
	material, err := a.verificationMaterial(*c.cert, *c.pubkey)
	if err != nil {
		return a.verifyVerdict(c, err)
	}
	data, err := a.readInput(*c.input)
	if err != nil {
		return a.verifyVerdict(c, err)
	}

	verifier := signature.NewXMLDsigVerifier(signature.WithVerifierLogger(logger))
	if _, err := verifier.Verify(data, material); err != nil {
		return a.verifyVerdict(c, err)
	}
	return a.verifyVerdict(c, nil)
}

// verificationMaterial resolves the trust input: --cert, --pubkey, or the
// JUX_CERT_PATH fallback.
func (a *App) verificationMaterial(certPath, pubkeyPath string) (ports.SigningMaterial, error) {
	if certPath != "" && pubkeyPath != "" {
		return nil, domain.UsageError("--cert and --pubkey are mutually exclusive")
	}
	if certPath == "" && pubkeyPath == "" {
		certPath = os.Getenv(certPathEnv)
	}
	switch {
	case certPath != "":
		cert, err := keys.LoadCertificate(certPath)
		if err != nil {
			return nil, err
		}
		return ports.CertificateMaterial{Certificate: cert}, nil
	case pubkeyPath != "":
		pub, err := keys.LoadPublicKey(pubkeyPath)
		if err != nil {
			return nil, err
		}
		return ports.PublicKeyMaterial{PublicKey: pub}, nil
	}
	return nil, domain.UsageError("--cert or --pubkey is required (or set " + certPathEnv + ")")
}

// verifyVerdict renders the outcome in the requested shape and maps it to
// the exit code. Quiet suppresses human output entirely; --json still
// prints, scripts depend on the object.
func (a *App) verifyVerdict(c *verifyCmd, err error) int {
	switch {
	case *c.json:
		verdict := map[string]any{"valid": err == nil}
		if err != nil {
			verdict["error"] = err.Error()
		}
		enc := json.NewEncoder(a.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(verdict)
	case err == nil:
		if !*c.quiet {
			fmt.Fprintln(a.Stdout, "Signature valid")
		}
	default:
		if !*c.quiet {
			fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		}
	}

	if err == nil {
		return exitOK
	}
	return exitCodeFor(err)
}
