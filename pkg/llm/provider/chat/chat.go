// Package chat implements the OpenAI-compatible chat completions backend.
//
// Requests are posted to the configured endpoint URL as-is, so any server
// speaking the chat completions wire format (OpenAI, DeepSeek, Ollama,
// vLLM, ...) can be used. Streaming responses are reduced by pkg/stream.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/llm"
	"github.com/papercomputeco/aitranslate/pkg/logger"
	"github.com/papercomputeco/aitranslate/pkg/stream"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// chatRequest is the request body. Stream is always sent; max_tokens is
// omitted when nil.
type chatRequest struct {
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	Temperature *float64                       `json:"temperature,omitempty"`
	MaxTokens   *int                           `json:"max_tokens,omitempty"`
	Stream      bool                           `json:"stream"`
}

// Backend talks to a chat completions endpoint over HTTP.
type Backend struct {
	endpoint      string
	key           string
	timeout       time.Duration
	bufferPartial bool

	client *http.Client
	logger *slog.Logger
	tee    io.Writer
}

// Option configures a Backend.
type Option func(*Backend)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) { b.client = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithStreamTee copies raw streamed bytes to w.
func WithStreamTee(w io.Writer) Option {
	return func(b *Backend) { b.tee = w }
}

// New creates a chat Backend from the model section of cfg.
func New(cfg *config.Config, opts ...Option) *Backend {
	b := &Backend{
		endpoint:      cfg.Model.API,
		key:           cfg.Model.Key,
		timeout:       cfg.Model.TimeoutDuration(),
		bufferPartial: cfg.Stream.BufferPartialLines,
		client:        &http.Client{},
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string {
	return config.BackendChat
}

// Complete posts req and returns the assistant text. Non-2xx responses
// become *llm.APIError; a completed response without choices[0].message.content
// is llm.ErrResponseShape.
func (b *Backend) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	body, err := json.Marshal(toWire(req))
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+b.key)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	b.logger.Debug("sending chat request",
		"endpoint", b.endpoint,
		"model", req.Model,
		"stream", req.Stream,
		"max_tokens", req.MaxTokens,
	)

	start := time.Now()
	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending chat request: %w", err)
	}
	defer resp.Body.Close()

	b.logger.Debug("received chat response",
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apiError(resp.StatusCode, raw)
	}

	if req.Stream {
		return b.readStream(ctx, req, resp.Body)
	}
	return readBody(req, resp.Body)
}

func (b *Backend) readStream(ctx context.Context, req *llm.ChatRequest, body io.Reader) (*llm.ChatResponse, error) {
	opts := []stream.Option{
		stream.WithLogger(b.logger),
		stream.WithBufferPartialLines(b.bufferPartial),
	}
	if b.tee != nil {
		opts = append(opts, stream.WithTee(b.tee))
	}

	text, err := stream.Accumulate(ctx, body, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading chat stream: %w", err)
	}

	return &llm.ChatResponse{
		Model:     req.Model,
		CreatedAt: time.Now(),
		Message:   llm.NewTextMessage("assistant", text),
		Streamed:  true,
	}, nil
}

func readBody(req *llm.ChatRequest, body io.Reader) (*llm.ChatResponse, error) {
	var out openai.ChatCompletionResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", llm.ErrResponseShape, err)
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: missing choices[0].message.content", llm.ErrResponseShape)
	}

	choice := out.Choices[0]
	model := out.Model
	if model == "" {
		model = req.Model
	}

	resp := &llm.ChatResponse{
		Model:      model,
		Message:    llm.NewTextMessage("assistant", strings.TrimSpace(choice.Message.Content)),
		StopReason: string(choice.FinishReason),
	}
	if out.Created > 0 {
		resp.CreatedAt = time.Unix(out.Created, 0)
	}
	if out.Usage.TotalTokens > 0 {
		resp.Usage = &llm.Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	return resp, nil
}

func toWire(req *llm.ChatRequest) chatRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.GetText(),
		})
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      req.Stream,
	}
}

// apiError prefers the upstream error.message and falls back to the raw body.
func apiError(status int, raw []byte) *llm.APIError {
	msg := strings.TrimSpace(string(raw))

	var envelope openai.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &llm.APIError{
		Backend:    config.BackendChat,
		StatusCode: status,
		Message:    msg,
	}
}
