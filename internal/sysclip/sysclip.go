// Package sysclip mirrors yanked text into the operating system clipboard.
package sysclip

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("system clipboard unavailable")

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// System copies through atotto/clipboard (pbcopy, xclip, xsel, wl-copy or
// the Windows API).
type System struct{}

// Copy copies text to the system clipboard.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to system clipboard: %w", err)
	}
	return nil
}

// Nop discards copies. It is used when clipboard.system is off.
type Nop struct{}

// Copy does nothing.
func (Nop) Copy(string) error { return nil }

// Recorder keeps every copied text. Tests use it in place of System.
type Recorder struct {
	Copied []string
	Err    error
}

// Copy records text and returns r.Err.
func (r *Recorder) Copy(text string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Copied = append(r.Copied, text)
	return nil
}

// New returns System when enabled, otherwise Nop.
func New(enabled bool) Clipboard {
	if enabled {
		return System{}
	}
	return Nop{}
}
