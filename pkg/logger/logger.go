// Package logger builds the slog loggers used across aitranslate.
//
// Three flavours are supported: plain text for simple output, JSON for the
// debug log file written by "aitranslate serve", and a pretty handler backed
// by charmbracelet/log for interactive CLI use.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/papercomputeco/aitranslate/pkg/utils"
)

type config struct {
	level  slog.Level
	pretty bool
	json   bool
	source bool
	writer io.Writer
}

// New returns a *slog.Logger configured by opts. With no options it writes
// Info and above as text to os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	w := c.writer
	if w == nil {
		w = os.Stdout
	}

	switch {
	case c.json:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))
	case c.pretty:
		return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			ReportCaller:    c.source,
		}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// PreviewLen is the number of runes kept by Preview.
const PreviewLen = 100

// Preview shortens s to at most PreviewLen runes for diagnostic output,
// appending "..." when it was cut.
func Preview(s string) string {
	return utils.Truncate(s, PreviewLen)
}
