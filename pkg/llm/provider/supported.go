package provider

import (
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/llm/provider/chat"
	"github.com/papercomputeco/aitranslate/pkg/llm/provider/gemini"
)

// ErrUnknownBackend is returned for an unrecognised model.backend value.
var ErrUnknownBackend = config.ErrUnknownBackend

// SupportedBackends returns the list of all supported backend names.
func SupportedBackends() []string {
	return []string{config.BackendChat, config.BackendGemini}
}

type options struct {
	httpClient    *http.Client
	logger        *slog.Logger
	geminiOptions []option.ClientOption
}

// Option configures backend construction.
type Option func(*options)

// WithHTTPClient sets the client used by the chat backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger passed to the backend.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithGeminiOptions appends client options for the gemini SDK, e.g. a custom
// endpoint.
func WithGeminiOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.geminiOptions = append(o.geminiOptions, opts...) }
}

// New creates the backend selected by cfg.Model.Backend.
func New(cfg *config.Config, opts ...Option) (Backend, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Model.Backend {
	case config.BackendChat, "":
		chatOpts := []chat.Option{chat.WithLogger(o.logger)}
		if o.httpClient != nil {
			chatOpts = append(chatOpts, chat.WithHTTPClient(o.httpClient))
		}
		return chat.New(cfg, chatOpts...), nil

	case config.BackendGemini:
		return gemini.New(cfg,
			gemini.WithLogger(o.logger),
			gemini.WithClientOptions(o.geminiOptions...),
		), nil

	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownBackend, cfg.Model.Backend, SupportedBackends())
	}
}
