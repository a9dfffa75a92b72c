package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel shows console output forwarded from the deployment but hides
// the runner's own debug diagnostics.
const DefaultLevel = "info"

// Options configure the diagnostic logger.
type Options struct {
	// Level is the minimum level to emit (trace, debug, info, warn, error, disabled).
	Level string
	// Console selects the human-readable console writer instead of JSON lines.
	Console bool
	// NoColor disables colors in console mode.
	NoColor bool
}

// New creates a zerolog logger writing to w, which is always the error stream.
// Diagnostics must never be interleaved with the success output on stdout.
func New(w io.Writer, opts Options) zerolog.Logger {
	if w == nil {
		w = io.Discard
	}
	out := w
	if opts.Console {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    opts.NoColor,
		}
	}
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, falling back to DefaultLevel.
func ParseLevel(level string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(name); err == nil {
		return l
	}
	return zerolog.InfoLevel
}
