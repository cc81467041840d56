package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/llm"
	"github.com/papercomputeco/aitranslate/pkg/llm/provider"
	"github.com/papercomputeco/aitranslate/pkg/logger"
	"github.com/papercomputeco/aitranslate/pkg/prompt"
)

// ErrEmptyInput is returned when there is nothing to translate or name.
var ErrEmptyInput = errors.New("input is empty")

// Recorder receives a history record after every successful operation.
// *worker.Pool satisfies it.
type Recorder interface {
	Enqueue(rec *history.Record) bool
}

// Engine implements Translator and Namer over a single backend built from an
// explicit configuration. An Engine is immutable; build a new one when the
// configuration changes.
type Engine struct {
	cfg      *config.Config
	backend  provider.Backend
	recorder Recorder
	logger   *slog.Logger
}

var (
	_ Translator = (*Engine)(nil)
	_ Namer      = (*Engine)(nil)
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	backend      provider.Backend
	recorder     Recorder
	logger       *slog.Logger
	providerOpts []provider.Option
}

// WithBackend uses b instead of building one from the configuration.
func WithBackend(b provider.Backend) Option {
	return func(o *engineOptions) { o.backend = b }
}

// WithRecorder enables history recording.
func WithRecorder(r Recorder) Option {
	return func(o *engineOptions) { o.recorder = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithProviderOptions passes options through to provider.New.
func WithProviderOptions(opts ...provider.Option) Option {
	return func(o *engineOptions) { o.providerOpts = append(o.providerOpts, opts...) }
}

// New creates an Engine for cfg. The configuration is not validated here so
// an engine can exist before the user finishes configuring it; Translate and
// Name report configuration errors instead.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("engine requires a configuration")
	}

	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Nop()
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = provider.New(cfg, append([]provider.Option{provider.WithLogger(o.logger)}, o.providerOpts...)...)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		cfg:      cfg,
		backend:  backend,
		recorder: o.recorder,
		logger:   o.logger,
	}, nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Translate translates content into opts.TargetLang().
func (e *Engine) Translate(ctx context.Context, content string, opts Options) (string, error) {
	target := opts.TargetLang()
	start := time.Now()

	text, err := e.translate(ctx, content, target)
	if err != nil {
		e.logger.Debug("translation failed",
			"target_lang", target,
			"content_preview", logger.Preview(content),
			"error", err,
		)
		return "", fmt.Errorf("translation failed: %w", err)
	}

	e.logger.Debug("translation completed",
		"target_lang", target,
		"duration", time.Since(start),
		"result_preview", logger.Preview(text),
	)

	e.record(history.KindTranslate, content, text, target, time.Since(start))
	return text, nil
}

func (e *Engine) translate(ctx context.Context, content, target string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyInput
	}
	if err := e.cfg.Validate(); err != nil {
		return "", err
	}

	p, err := prompt.Translation(e.cfg.Prompt.Translate, prompt.Vars{
		Content:    content,
		TargetLang: target,
	})
	if err != nil {
		return "", err
	}

	return e.complete(ctx, p, e.cfg.Model.Streaming)
}

// Link returns content unchanged; the engine produces no hyperlinks.
func (e *Engine) Link(content string, _ Options) string {
	return content
}

// IsSupported reports whether src can be translated. Every language is
// accepted and left to the model.
func (e *Engine) IsSupported(_ string) bool {
	return true
}

// Name renames req.Identifier following the configured naming rules. Naming
// requests are never streamed.
func (e *Engine) Name(ctx context.Context, req NamingRequest) (string, error) {
	start := time.Now()

	text, err := e.name(ctx, req)
	if err != nil {
		e.logger.Debug("naming failed",
			"identifier", req.Identifier,
			"language_id", req.LanguageID,
			"error", err,
		)
		return "", fmt.Errorf("naming failed: %w", err)
	}

	e.logger.Debug("naming completed",
		"identifier", req.Identifier,
		"paragraph_preview", logger.Preview(req.Paragraph),
		"result", text,
		"duration", time.Since(start),
	)

	e.record(history.KindNaming, req.Identifier, text, "", time.Since(start))
	return text, nil
}

func (e *Engine) name(ctx context.Context, req NamingRequest) (string, error) {
	if strings.TrimSpace(req.Identifier) == "" {
		return "", ErrEmptyInput
	}
	if err := e.cfg.Validate(); err != nil {
		return "", err
	}

	p, err := prompt.Naming(e.cfg.Prompt.Naming, prompt.Vars{
		VariableName: req.Identifier,
		LanguageID:   req.LanguageID,
		Paragraph:    req.Paragraph,
		NamingRules:  e.cfg.Naming.Rules,
	})
	if err != nil {
		return "", err
	}

	return e.complete(ctx, p, false)
}

// complete sends one prompt to the backend and post-processes the reply.
func (e *Engine) complete(ctx context.Context, p string, streaming bool) (string, error) {
	req := llm.NewPromptRequest(e.cfg.Model.Name, p)
	req.Stream = streaming
	req.MaxTokens = e.cfg.Model.EffectiveMaxTokens()
	temp := e.cfg.Model.EffectiveTemperature()
	req.Temperature = &temp

	e.logger.Debug("sending request",
		"backend", e.backend.Name(),
		"model", req.Model,
		"stream", req.Stream,
		"prompt_preview", logger.Preview(p),
	)

	resp, err := e.backend.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if e.cfg.Output.StripThinkingEnabled() {
		text = prompt.StripThinking(text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: model returned no text", llm.ErrResponseShape)
	}
	return text, nil
}

func (e *Engine) record(kind history.Kind, input, output, target string, d time.Duration) {
	if e.recorder == nil {
		return
	}

	rec := history.NewRecord(kind)
	rec.Backend = e.backend.Name()
	rec.Model = e.cfg.Model.Name
	rec.Input = input
	rec.Output = output
	rec.TargetLang = target
	rec.Duration = d
	e.recorder.Enqueue(rec)
}
