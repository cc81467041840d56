// Package mcp exposes the translation engine as MCP (Model Context Protocol)
// tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/aitranslate/pkg/translate"
	"github.com/papercomputeco/aitranslate/pkg/utils"
)

type Config struct {
	// Translator serves the translate tool
	Translator translate.Translator

	// Namer serves the name tool
	Namer translate.Namer

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the translate and name tools.
func NewServer(c Config) (*Server, error) {
	if c.Translator == nil {
		return nil, errors.New("translator is required")
	}
	if c.Namer == nil {
		return nil, errors.New("namer is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "aitranslate",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        translateToolName,
		Description: translateDescription,
	}, s.handleTranslate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        nameToolName,
		Description: nameDescription,
	}, s.handleName)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
