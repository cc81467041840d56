package stream

import (
	"io"
	"log/slog"

	"github.com/papercomputeco/aitranslate/pkg/sse"
)

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithLogger sets the logger used for per-line diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Accumulator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTee copies every chunk verbatim to w before it is tokenized.
func WithTee(w io.Writer) Option {
	return func(a *Accumulator) {
		a.tee = w
	}
}

// WithLineMode selects how chunks are split into lines. The default is
// sse.PerChunk.
func WithLineMode(mode sse.Mode) Option {
	return func(a *Accumulator) {
		a.mode = mode
	}
}

// WithBufferPartialLines is shorthand for WithLineMode(sse.BufferPartial)
// when enabled is true.
func WithBufferPartialLines(enabled bool) Option {
	return func(a *Accumulator) {
		if enabled {
			a.mode = sse.BufferPartial
		} else {
			a.mode = sse.PerChunk
		}
	}
}
