package config

import "time"

// Backend variants selectable through model.backend.
const (
	BackendChat   = "chat"
	BackendGemini = "gemini"
)

const (
	// DefaultMaxTokens applies when model.max_tokens is unset.
	DefaultMaxTokens = 2048

	// DefaultTemperature applies when model.temperature is unset or 0.
	DefaultTemperature = 0.2

	// DefaultTimeout bounds a whole request, streaming included.
	DefaultTimeout = 30 * time.Second

	defaultBackend      = BackendChat
	defaultNamingRules  = "default"
	defaultServerListen = ":7878"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	strip := true
	return &Config{
		Version: CurrentV,
		Model: ModelConfig{
			Backend: defaultBackend,
			Timeout: DefaultTimeout.String(),
		},
		Naming: NamingConfig{
			Rules: defaultNamingRules,
		},
		Output: OutputConfig{
			StripThinking: &strip,
		},
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
	}
}
