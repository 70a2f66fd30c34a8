package cli

import (
	"crypto"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/keys"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/signature"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

type signCmd struct {
	cmd        *argparse.Command
	input      *string
	output     *string
	key        *string
	cert       *string
	configPath *string
}

func newSignCommand(parser *argparse.Parser) *signCmd {
	cmd := parser.NewCommand("sign",
		"sign a JUnit report with an enveloped XML signature")
	return &signCmd{
		cmd: cmd,
		input: cmd.String("i", "input", &argparse.Options{
			Help: "report to sign, stdin when omitted"}),
		output: cmd.String("o", "output", &argparse.Options{
			Help: "signed report destination, stdout when omitted"}),
		key: cmd.String("k", "key", &argparse.Options{
			Help: "PEM signing key"}),
		cert: cmd.String("c", "cert", &argparse.Options{
			Help: "PEM certificate to embed in the signature"}),
		configPath: cmd.String("", "config", &argparse.Options{
			Help: "config file supplying key_path and cert_path"}),
	}
}

func (a *App) runSign(c *signCmd, logger *zap.Logger) int {
	cfg, err := configadapter.Load(*c.configPath)
	if err != nil {
		return a.fail(err)
	}

	keyPath := *c.key
	if keyPath == "" {
		keyPath = cfg.KeyPath
	}
	if keyPath == "" {
		return a.fail(domain.UsageError("--key is required (or key_path in the config file)"))
	}
	certPath := *c.cert
	if certPath == "" {
		certPath = cfg.CertPath
	}

	data, err := a.readInput(*c.input)
	if err != nil {
		return a.fail(err)
	}

	key, err := a.loadSigningKey(keyPath)
	if err != nil {
		return a.fail(err)
	}

	signerOpts := []signature.SignerOption{signature.WithSignerLogger(logger)}
	if certPath != "" {
		cert, cerr := keys.LoadCertificate(certPath)
		if cerr != nil {
			return a.fail(cerr)
		}
		signerOpts = append(signerOpts, signature.WithSignerCertificate(cert))
	}
	signer, err := signature.NewXMLDsigSigner(key, signerOpts...)
	if err != nil {
		return a.fail(err)
	}

	signed, err := signer.Sign(data)
	if err != nil {
		return a.fail(err)
	}

	// The hash identifies the report content, so it is computed over the
	// input rather than the signed result.
	hash, err := canonical.NewExcC14NCanonicalizer(canonical.WithLogger(logger)).Hash(data)
	if err != nil {
		return a.fail(err)
	}

	if *c.output == "" {
		if _, werr := a.Stdout.Write(signed); werr != nil {
			return a.fail(domain.FileAccessError("failed to write stdout", werr))
		}
		// In pipeline mode stdout carries the signed XML; the hash moves
		// to stderr so the stream stays parseable.
		fmt.Fprintln(a.Stderr, hash)
		return exitOK
	}
	if err := os.WriteFile(*c.output, signed, 0o644); err != nil {
		return a.fail(domain.FileAccessError(fmt.Sprintf("failed to write %s", *c.output), err))
	}
	logger.Info("report signed",
		zap.String("output", *c.output),
		zap.String("hash", hash.Short()))
	fmt.Fprintln(a.Stdout, hash)
	return exitOK
}

// loadSigningKey loads keyPath, collecting a passphrase only when the key
// actually needs one.
func (a *App) loadSigningKey(keyPath string) (crypto.Signer, error) {
	encrypted, err := keys.KeyIsEncrypted(keyPath)
	if err != nil {
		return nil, err
	}
	if !encrypted {
		return keys.LoadKey(keyPath)
	}
	passphrase, err := a.readPassphrase(false)
	if err != nil {
		return nil, err
	}
	return keys.LoadKeyWithPassphrase(keyPath, passphrase)
}
