// Package provider selects the model backend used to complete prompts.
package provider

import (
	"context"

	"github.com/papercomputeco/aitranslate/pkg/llm"
)

// Backend sends one completion request to a model and returns the
// assembled response. Implementations are not retried and never fall back
// to one another.
type Backend interface {
	// Name returns the backend variant ("chat" or "gemini").
	Name() string

	// Complete runs a single request. The whole exchange, streaming
	// included, is bounded by the backend's configured timeout.
	Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}
