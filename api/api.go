package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/aitranslate/api/mcp"
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/translate"
)

// Server is the HTTP bridge in front of the translation engine.
type Server struct {
	config Config
	engine *translate.Switch
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server and builds the initial engine from the
// store's current configuration.
func NewServer(c Config, logger *slog.Logger) (*Server, error) {
	if c.Store == nil {
		return nil, errors.New("config store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: c,
		engine: &translate.Switch{},
		logger: logger,
		app:    app,
	}

	if err := s.ApplyConfig(c.Store.Current()); err != nil {
		return nil, err
	}

	app.Get("/ping", s.handlePing)
	app.Get("/engine", s.handleEngine)
	app.Post("/translate", s.handleTranslate)
	app.Post("/link", s.handleLink)
	app.Get("/supported", s.handleSupported)
	app.Post("/naming", s.handleNaming)
	app.Post("/config/reload", s.handleReload)
	app.Get("/history", s.handleHistory)

	if c.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Translator: s.engine,
			Namer:      s.engine,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// ApplyConfig builds an engine from cfg and installs it. On failure the
// previous engine stays in effect.
func (s *Server) ApplyConfig(cfg *config.Config) error {
	opts := append([]translate.Option{translate.WithLogger(s.logger)}, s.config.EngineOptions...)
	engine, err := translate.New(cfg, opts...)
	if err != nil {
		return err
	}

	s.engine.Set(engine)
	s.logger.Info("translation engine ready",
		"backend", cfg.Model.Backend,
		"model", cfg.Model.Name,
		"streaming", cfg.Model.Streaming,
	)
	return nil
}

// Reload re-reads the configuration store and rebuilds the engine. The
// store only takes the new configuration when the engine was built.
func (s *Server) Reload() (*config.Config, error) {
	return s.config.Store.ReloadWith(s.ApplyConfig)
}

// Engine returns the Translator backed by the engine in effect.
func (s *Server) Engine() *translate.Switch {
	return s.engine
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"mcp", s.config.MCP,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
