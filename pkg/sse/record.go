// Package sse tokenizes the line-oriented event stream returned by
// OpenAI-compatible chat completion endpoints when "stream": true is set.
//
// Unlike a general purpose SSE client, records here are single lines: every
// non-empty line is either a "data:" payload, the "[DONE]" sentinel, or a
// field/comment line that carries no completion content.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "strings"

const (
	// DataPrefix is the event-prefix token stripped from payload lines.
	DataPrefix = "data:"

	// DoneSentinel terminates a chat completion stream.
	DoneSentinel = "[DONE]"
)

// Kind classifies a single event record.
type Kind int

const (
	// KindPayload is a line whose remainder should be decoded as JSON.
	KindPayload Kind = iota

	// KindDone is a line that equals or contains DoneSentinel.
	KindDone

	// KindIgnored is an SSE comment or a non-data field such as "event:",
	// "id:" or "retry:".
	KindIgnored
)

func (k Kind) String() string {
	switch k {
	case KindPayload:
		return "payload"
	case KindDone:
		return "done"
	case KindIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Record is one parsed line of the stream.
type Record struct {
	Kind Kind

	// Payload is the line with the event prefix (and a single following
	// space) removed. Empty for ignored records.
	Payload string
}

// ignoredFields are SSE fields that never carry completion content.
var ignoredFields = []string{"event:", "id:", "retry:"}

// ParseLine classifies a single non-empty, already trimmed line.
//
// A line without the "data:" prefix is treated as a bare payload, since some
// OpenAI-compatible servers emit raw JSON lines.
func ParseLine(line string) Record {
	if strings.HasPrefix(line, ":") {
		return Record{Kind: KindIgnored}
	}
	for _, field := range ignoredFields {
		if strings.HasPrefix(line, field) {
			return Record{Kind: KindIgnored}
		}
	}

	payload := line
	if after, ok := strings.CutPrefix(line, DataPrefix); ok {
		payload = strings.TrimPrefix(after, " ")
	}

	if strings.Contains(payload, DoneSentinel) {
		return Record{Kind: KindDone, Payload: payload}
	}

	return Record{Kind: KindPayload, Payload: payload}
}
