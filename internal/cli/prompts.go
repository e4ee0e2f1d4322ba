package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Barneybot002/monad-testbot/internal/botcrypto"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// promptPassphrase reads a passphrase with hidden input.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	raw, err := term.ReadPassword(syscall.Stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	defer botcrypto.ZeroBytes(raw)

	return strings.TrimSpace(string(raw)), nil
}
