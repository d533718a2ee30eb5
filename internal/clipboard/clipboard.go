// Package clipboard copies secrets to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Copier places text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// System copies through github.com/atotto/clipboard and falls back to
// pbcopy, xclip or xsel when that fails.
type System struct{}

// Copy implements Copier.
func (System) Copy(text string) error {
	if !atotto.Unsupported {
		if err := atotto.WriteAll(text); err == nil {
			return nil
		}
	}
	return Copy(text)
}

// Available reports whether Copy has any clipboard to write to.
func (System) Available() bool {
	return !atotto.Unsupported || IsAvailable()
}

// Nop discards copies. It is used when the launcher does the copying.
type Nop struct{}

// Copy implements Copier.
func (Nop) Copy(string) error { return nil }

// Func adapts a plain function to Copier.
type Func func(text string) error

// Copy implements Copier.
func (f Func) Copy(text string) error { return f(text) }

// IsAvailable checks if a clipboard command is available on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// getClipboardCommand returns the shell command that writes stdin to the
// clipboard on this platform.
func getClipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "linux":
		// Try xclip first, fall back to xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// Copy copies the given text to the system clipboard with a shell command.
// Returns ErrClipboardUnavailable if no command is available.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}

	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
