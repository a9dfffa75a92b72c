package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// DefaultFrames are braille spinner frames similar to the docker CLI.
var DefaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StartSpinner draws an inline spinner followed by text on w until the returned
// function is called. The line is cleared on stop so that whatever is printed
// next starts on a clean line. When w is a terminal file the cursor is hidden
// while spinning and restored on stop.
//
// Stop is idempotent and waits for the drawing goroutine to exit.
func StartSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	if len(frames) == 0 {
		frames = DefaultFrames
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	var cur *cursor.Cursor
	if cw, ok := w.(cursor.Writer); ok && IsInteractive(w) {
		cur = cursor.NewCursor().WithWriter(cw)
		cur.Hide()
	}

	style := pterm.NewStyle(pterm.FgLightCyan)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		width := 0
		for {
			select {
			case <-stop:
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", width, "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				if n := len(line); n > width {
					width = n
				}
				fmt.Fprintf(w, "\r%s %s", style.Sprint(frames[i%len(frames)]), text)
				i++
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			if cur != nil {
				cur.Show()
			}
		})
	}
}
