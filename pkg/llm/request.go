package llm

// ChatRequest represents a backend-agnostic completion request. Every
// translation or naming action sends exactly one request with a single user
// message holding the rendered prompt.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// Stream asks the backend to deliver the completion incrementally.
	Stream bool `json:"stream"`

	// MaxTokens is omitted from the wire request when nil.
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// NewPromptRequest builds a single-message user request.
func NewPromptRequest(model, prompt string) *ChatRequest {
	return &ChatRequest{
		Model:    model,
		Messages: []Message{NewTextMessage("user", prompt)},
	}
}
