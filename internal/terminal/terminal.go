// Package terminal provides small terminal helpers: TTY detection and an inline
// progress spinner that only ever draws on the stream it is given.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether w is a terminal. Anything that is not an
// *os.File (buffers, pipes wrapped by tests) is treated as non-interactive.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
