// Package llm holds the backend-agnostic request and response types used to
// talk to completion models.
package llm

import "strings"

// Message represents a single message in a conversation.
type Message struct {
	Role    string         `json:"role"` // "system", "user", "assistant"
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one piece of message content. Only "text" blocks are
// produced today.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// NewTextMessage creates a simple text message with the given role and content.
func NewTextMessage(role, text string) Message {
	return Message{
		Role: role,
		Content: []ContentBlock{
			{Type: "text", Text: text},
		},
	}
}

// GetText returns the concatenated text content from all text blocks in the message.
func (m *Message) GetText() string {
	var b strings.Builder
	for _, block := range m.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
