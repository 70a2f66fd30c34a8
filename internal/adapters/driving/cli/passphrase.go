package cli

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// passphraseEnv supplies the key passphrase non-interactively; CI has no
// terminal to prompt on.
const passphraseEnv = "JUX_KEY_PASSPHRASE"

// readPassphrase returns the key passphrase from JUX_KEY_PASSPHRASE, or
// prompts on the terminal. confirm asks twice, for key creation. The
// prompt uses the process stdin: a passphrase is typed by a person, never
// piped alongside report data.
func (a *App) readPassphrase(confirm bool) ([]byte, error) {
	if v, ok := os.LookupEnv(passphraseEnv); ok {
		if v == "" {
			return nil, domain.UsageError(passphraseEnv + " is set but empty")
		}
		return []byte(v), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, domain.UsageError(
			"no terminal to prompt for a passphrase: set " + passphraseEnv)
	}

	fmt.Fprint(a.Stderr, "Passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(a.Stderr)
	if err != nil {
		return nil, domain.UsageError("reading passphrase failed: " + err.Error())
	}
	if len(first) == 0 {
		return nil, domain.UsageError("passphrase must not be empty")
	}
	if !confirm {
		return first, nil
	}

	fmt.Fprint(a.Stderr, "Confirm passphrase: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(a.Stderr)
	if err != nil {
		return nil, domain.UsageError("reading passphrase failed: " + err.Error())
	}
	if !bytes.Equal(first, second) {
		return nil, domain.UsageError("passphrases do not match")
	}
	return first, nil
}
