package llm

import "time"

// ChatResponse represents a backend-agnostic completion response.
type ChatResponse struct {
	// Model that generated the response
	Model string `json:"model"`

	// Response timestamp
	CreatedAt time.Time `json:"created_at,omitzero"`

	// The assistant's response message
	Message Message `json:"message"`

	// Stop reason (e.g., "stop", "length")
	StopReason string `json:"stop_reason,omitempty"`

	// Streamed is true when the text was assembled from incremental deltas.
	Streamed bool `json:"streamed,omitempty"`

	// Token usage, when the backend reports it
	Usage *Usage `json:"usage,omitempty"`
}

// Text returns the assistant's text content.
func (r *ChatResponse) Text() string {
	return r.Message.GetText()
}

// Usage contains token counts.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}
