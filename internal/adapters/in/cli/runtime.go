// internal/adapters/in/cli/runtime.go
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	mintapp "wecastmint/internal/application/mint"
)

// TerminalRuntime hosts the mint controller in a terminal: URLs are printed
// instead of opened and alerts go to the output stream.
type TerminalRuntime struct {
	User           mintapp.UserContext
	WalletProvider bool

	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer

	opened []string
}

var _ mintapp.FrameRuntime = (*TerminalRuntime)(nil)

func NewTerminalRuntime(in io.Reader, out io.Writer, user mintapp.UserContext, walletProvider bool) *TerminalRuntime {
	return &TerminalRuntime{
		User:           user,
		WalletProvider: walletProvider,
		in:             bufio.NewReader(in),
		out:            out,
	}
}

func (t *TerminalRuntime) UserContext(ctx context.Context) (mintapp.UserContext, error) {
	return t.User, ctx.Err()
}

func (t *TerminalRuntime) Ready(ctx context.Context) error {
	if t.User.DisplayName != "" {
		t.printf("Welcome, %s\n", t.User.DisplayName)
	}
	return ctx.Err()
}

func (t *TerminalRuntime) OpenURL(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	t.opened = append(t.opened, url)
	t.mu.Unlock()
	t.printf("open: %s\n", url)
	return nil
}

func (t *TerminalRuntime) Alert(msg string) {
	t.printf("! %s\n", msg)
}

func (t *TerminalRuntime) HasWalletProvider() bool {
	return t.WalletProvider
}

// Opened returns every URL handed to OpenURL, in order.
func (t *TerminalRuntime) Opened() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.opened...)
}

// Confirm prints prompt and waits for a line. Empty, "y" and "yes" mean yes;
// EOF means no.
func (t *TerminalRuntime) Confirm(prompt string) bool {
	t.printf("%s [Y/n] ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		t.printf("\n")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

func (t *TerminalRuntime) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}
