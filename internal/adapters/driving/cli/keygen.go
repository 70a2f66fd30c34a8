package cli

import (
	"crypto"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/keys"
)

type keygenCmd struct {
	cmd     *argparse.Command
	keyType *string
	bits    *int
	curve   *string
	output  *string
	cert    *bool
	subject *string
	days    *int
	encrypt *bool
}

func newKeygenCommand(parser *argparse.Parser) *keygenCmd {
	cmd := parser.NewCommand("keygen",
		"generate a signing key and optional self-signed certificate")
	return &keygenCmd{
		cmd: cmd,
		keyType: cmd.Selector("t", "type", []string{"rsa", "ecdsa"}, &argparse.Options{
			Default: "rsa", Help: "key algorithm"}),
		bits: cmd.Int("b", "bits", &argparse.Options{
			Default: keys.DefaultRSABits, Help: "RSA key size: 2048, 3072, or 4096"}),
		curve: cmd.Selector("", "curve", keys.SupportedCurves(), &argparse.Options{
			Default: keys.DefaultCurve, Help: "ECDSA curve"}),
		output: cmd.String("o", "output", &argparse.Options{
			Required: true, Help: "key file to write"}),
		cert: cmd.Flag("c", "cert", &argparse.Options{
			Help: "also write a self-signed certificate next to the key"}),
		subject: cmd.String("s", "subject", &argparse.Options{
			Help: "certificate subject, e.g. \"CN=ci signing\""}),
		days: cmd.Int("d", "days", &argparse.Options{
			Default: keys.DefaultDaysValid, Help: "certificate lifetime in days"}),
		encrypt: cmd.Flag("e", "encrypt", &argparse.Options{
			Help: "encrypt the key under a passphrase"}),
	}
}

func (a *App) runKeygen(c *keygenCmd, logger *zap.Logger) int {
	var (
		key  crypto.Signer
		err  error
		desc string
	)
	switch *c.keyType {
	case "ecdsa":
		key, err = keys.GenerateECDSAKey(*c.curve)
		desc = "ECDSA " + *c.curve
	default:
		key, err = keys.GenerateRSAKey(*c.bits)
		desc = fmt.Sprintf("RSA-%d", *c.bits)
	}
	if err != nil {
		return a.fail(err)
	}
	logger.Debug("key generated", zap.String("type", *c.keyType))

	if *c.encrypt {
		passphrase, perr := a.readPassphrase(true)
		if perr != nil {
			return a.fail(perr)
		}
		err = keys.SaveKeyEncrypted(key, *c.output, passphrase)
	} else {
		err = keys.SaveKey(key, *c.output)
	}
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.Stdout, "Generated %s key: %s\n", desc, *c.output)

	if !*c.cert {
		return exitOK
	}

	opts := []keys.CertOption{keys.WithDaysValid(*c.days)}
	if *c.subject != "" {
		opts = append(opts, keys.WithSubject(*c.subject))
	}
	cert, err := keys.GenerateSelfSignedCert(key, opts...)
	if err != nil {
		return a.fail(err)
	}
	certPath := derivedCertPath(*c.output)
	if err := keys.SaveCertificate(cert, certPath); err != nil {
		return a.fail(err)
	}
	logger.Debug("certificate written",
		zap.String("path", certPath),
		zap.String("subject", cert.Subject.String()))
	fmt.Fprintf(a.Stdout, "Generated self-signed certificate: %s\n", certPath)
	return exitOK
}

// derivedCertPath maps key.pem to key.crt, appending .crt when the key
// file has no extension.
func derivedCertPath(keyPath string) string {
	return strings.TrimSuffix(keyPath, filepath.Ext(keyPath)) + ".crt"
}
