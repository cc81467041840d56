// Package api provides the local HTTP bridge that editor plugins call to
// reach the translation engine.
package api

import (
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/translate"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":7878")
	ListenAddr string

	// Store supplies the configuration engines are built from.
	// POST /config/reload re-reads it.
	Store *config.Store

	// History serves GET /history. Optional.
	History history.Driver

	// EngineOptions are applied to every engine the server builds, e.g. the
	// history recorder.
	EngineOptions []translate.Option

	// MCP mounts the MCP streamable HTTP endpoint at /mcp.
	MCP bool
}
