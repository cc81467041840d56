package sse

import "strings"

// Mode selects how byte chunks are cut into lines.
type Mode int

const (
	// PerChunk tokenizes every chunk on its own. A record split across two
	// network reads yields two malformed fragments and its content is lost.
	PerChunk Mode = iota

	// BufferPartial carries an incomplete trailing line over to the next
	// chunk and releases it on Flush.
	BufferPartial
)

func (m Mode) String() string {
	if m == BufferPartial {
		return "buffer-partial"
	}
	return "per-chunk"
}

// Splitter turns an ordered sequence of byte chunks into non-empty lines.
// A Splitter is owned by a single accumulation and is not safe for
// concurrent use.
type Splitter struct {
	mode    Mode
	pending strings.Builder
}

// NewSplitter returns a Splitter operating in the given mode.
func NewSplitter(mode Mode) *Splitter {
	return &Splitter{mode: mode}
}

// Mode reports the splitter's line mode.
func (s *Splitter) Mode() Mode {
	return s.mode
}

// Split returns the complete, non-empty lines found in chunk, trimmed of
// surrounding whitespace (including "\r" from CRLF framing).
func (s *Splitter) Split(chunk []byte) []string {
	text := string(chunk)

	if s.mode == BufferPartial {
		if s.pending.Len() > 0 {
			text = s.pending.String() + text
			s.pending.Reset()
		}

		idx := strings.LastIndexByte(text, '\n')
		if idx < 0 {
			s.pending.WriteString(text)
			return nil
		}
		s.pending.WriteString(text[idx+1:])
		text = text[:idx]
	}

	return nonEmptyLines(text)
}

// Flush returns whatever partial line is still buffered. It always returns
// nil in PerChunk mode.
func (s *Splitter) Flush() []string {
	if s.pending.Len() == 0 {
		return nil
	}
	rest := s.pending.String()
	s.pending.Reset()
	return nonEmptyLines(rest)
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
