// Package gemini implements the backend for Google's generative models
// through the generative-ai-go SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/llm"
	"github.com/papercomputeco/aitranslate/pkg/logger"
)

// Backend completes prompts with a Gemini model. A client is created per
// request and closed when the request finishes.
type Backend struct {
	key     string
	timeout time.Duration

	clientOpts []option.ClientOption
	logger     *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClientOptions appends SDK client options.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(b *Backend) { b.clientOpts = append(b.clientOpts, opts...) }
}

// New creates a gemini Backend from the model section of cfg.
func New(cfg *config.Config, opts ...Option) *Backend {
	b := &Backend{
		key:     cfg.Model.Key,
		timeout: cfg.Model.TimeoutDuration(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string {
	return config.BackendGemini
}

// Complete sends the prompt held by req and returns the generated text.
func (b *Backend) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	opts := append([]option.ClientOption{option.WithAPIKey(b.key)}, b.clientOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	configureModel(model, req)

	parts := promptParts(req)
	if len(parts) == 0 {
		return nil, errors.New("gemini: request has no prompt text")
	}

	b.logger.Debug("sending gemini request",
		"model", req.Model,
		"stream", req.Stream,
		"max_tokens", req.MaxTokens,
	)

	if req.Stream {
		return b.stream(ctx, model, req, parts)
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, mapError(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	return &llm.ChatResponse{
		Model:      req.Model,
		CreatedAt:  time.Now(),
		Message:    llm.NewTextMessage("assistant", strings.TrimSpace(text)),
		StopReason: finishReason(resp),
		Usage:      usage(resp),
	}, nil
}

func (b *Backend) stream(ctx context.Context, model *genai.GenerativeModel, req *llm.ChatRequest, parts []genai.Part) (*llm.ChatResponse, error) {
	iter := model.GenerateContentStream(ctx, parts...)

	var (
		buf  strings.Builder
		last *genai.GenerateContentResponse
	)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(err)
		}
		last = resp
		buf.WriteString(candidateText(resp))
	}

	if last == nil {
		return nil, fmt.Errorf("%w: empty gemini stream", llm.ErrResponseShape)
	}

	return &llm.ChatResponse{
		Model:      req.Model,
		CreatedAt:  time.Now(),
		Message:    llm.NewTextMessage("assistant", strings.TrimSpace(buf.String())),
		StopReason: finishReason(last),
		Streamed:   true,
		Usage:      usage(last),
	}, nil
}

func configureModel(model *genai.GenerativeModel, req *llm.ChatRequest) {
	if req.Temperature != nil {
		model.SetTemperature(float32(*req.Temperature))
	}
	if req.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*req.MaxTokens))
	}
}

// promptParts flattens the request's user messages into text parts.
func promptParts(req *llm.ChatRequest) []genai.Part {
	var parts []genai.Part
	for _, m := range req.Messages {
		if m.Role != "user" {
			continue
		}
		if text := m.GetText(); text != "" {
			parts = append(parts, genai.Text(text))
		}
	}
	return parts
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", llm.ErrResponseShape)
	}
	text := candidateText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: candidate has no text", llm.ErrResponseShape)
	}
	return text, nil
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	switch resp.Candidates[0].FinishReason {
	case genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonSafety:
		return "safety"
	default:
		return ""
	}
}

func usage(resp *genai.GenerateContentResponse) *llm.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}

// mapError turns SDK errors into the shared error taxonomy.
func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(apiErr.Body)
		}
		return &llm.APIError{
			Backend:    config.BackendGemini,
			StatusCode: apiErr.Code,
			Message:    msg,
		}
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %v", llm.ErrResponseShape, blocked)
	}

	return fmt.Errorf("gemini request: %w", err)
}
