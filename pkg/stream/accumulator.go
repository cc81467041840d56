// Package stream reduces a streamed chat completion into a single text value.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/papercomputeco/aitranslate/pkg/logger"
	"github.com/papercomputeco/aitranslate/pkg/sse"
)

// ErrFinalized is returned when an accumulator that already completed or
// failed is written to or finalized again.
var ErrFinalized = errors.New("accumulator already finalized")

// State is the lifecycle position of an Accumulator.
type State int

const (
	StateIdle State = iota
	StateAccumulating
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RecordError describes a single line that could not be decoded.
type RecordError struct {
	Line string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %v", logger.Preview(e.Line), e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// streamDelta is the subset of a chat.completion.chunk object that carries
// generated text.
type streamDelta struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Accumulator collects delta fragments from an ordered sequence of chunks.
// Each accumulation owns its own Accumulator; it is not safe for concurrent
// use.
type Accumulator struct {
	splitter   *sse.Splitter
	buf        strings.Builder
	state      State
	terminated bool
	result     string
	err        error
	recordErrs []*RecordError

	tee    io.Writer
	logger *slog.Logger
	mode   sse.Mode
}

// New returns an Accumulator in the Accumulating state.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{
		logger: logger.Nop(),
		mode:   sse.PerChunk,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.splitter = sse.NewSplitter(a.mode)
	a.state = StateAccumulating
	return a
}

// Write consumes one chunk. It never fails because of chunk contents;
// malformed lines are recorded and skipped. Chunks that arrive after the
// sentinel are accepted but contribute nothing.
func (a *Accumulator) Write(chunk []byte) (int, error) {
	if a.state != StateAccumulating {
		return 0, ErrFinalized
	}

	if a.tee != nil {
		if _, err := a.tee.Write(chunk); err != nil {
			a.logger.Debug("stream tee write failed", "error", err)
		}
	}

	a.consume(a.splitter.Split(chunk))
	return len(chunk), nil
}

// Close signals end-of-stream and returns the trimmed result.
func (a *Accumulator) Close() (string, error) {
	if a.state != StateAccumulating {
		return "", ErrFinalized
	}

	a.consume(a.splitter.Flush())

	a.result = strings.TrimSpace(a.buf.String())
	a.state = StateCompleted
	a.buf.Reset()

	a.logger.Debug("stream completed",
		"length", len(a.result),
		"malformed_records", len(a.recordErrs),
		"preview", logger.Preview(a.result),
	)
	return a.result, nil
}

// Fail records a transport error. No result is produced and the partial
// buffer is discarded.
func (a *Accumulator) Fail(err error) error {
	if a.state != StateAccumulating {
		return ErrFinalized
	}

	a.err = err
	a.state = StateFailed
	a.buf.Reset()

	a.logger.Debug("stream failed", "error", err)
	return err
}

// State reports the current lifecycle state.
func (a *Accumulator) State() State {
	return a.state
}

// Terminated reports whether the sentinel record has been seen.
func (a *Accumulator) Terminated() bool {
	return a.terminated
}

// Result returns the final text once the accumulator has completed.
func (a *Accumulator) Result() (string, bool) {
	return a.result, a.state == StateCompleted
}

// Err returns the transport error of a failed accumulator.
func (a *Accumulator) Err() error {
	return a.err
}

// RecordErrors returns the malformed lines seen so far.
func (a *Accumulator) RecordErrors() []*RecordError {
	out := make([]*RecordError, len(a.recordErrs))
	copy(out, a.recordErrs)
	return out
}

func (a *Accumulator) consume(lines []string) {
	for _, line := range lines {
		if a.terminated {
			return
		}

		rec := sse.ParseLine(line)
		switch rec.Kind {
		case sse.KindIgnored:
			continue
		case sse.KindDone:
			a.terminated = true
			continue
		}

		var d streamDelta
		if err := json.Unmarshal([]byte(rec.Payload), &d); err != nil {
			recErr := &RecordError{Line: line, Err: err}
			a.recordErrs = append(a.recordErrs, recErr)
			a.logger.Debug("skipping malformed stream record", "error", recErr)
			continue
		}

		if len(d.Choices) > 0 && d.Choices[0].Delta.Content != nil {
			a.buf.WriteString(*d.Choices[0].Delta.Content)
		}
	}
}
