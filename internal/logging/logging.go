// Package logging builds the zerolog logger shared by promptgate commands.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Log output formats accepted by ParseFormat.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ParseFormat reports whether format selects JSON lines. Empty means console.
func ParseFormat(format string) (bool, error) {
	switch format {
	case "", FormatConsole:
		return false, nil
	case FormatJSON:
		return true, nil
	}
	return false, fmt.Errorf("invalid log format %q: want %s or %s", format, FormatConsole, FormatJSON)
}

// Options configures New.
type Options struct {
	Level string // zerolog level name; empty means the default
	JSON  bool   // emit JSON lines instead of console output
	RunID string // correlation id; generated when empty
}

// New returns a logger writing to w. Each logger carries a run_id so lines
// from one invocation can be correlated.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger(), nil
}
