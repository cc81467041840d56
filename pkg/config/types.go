package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent aitranslate configuration stored as
// config.toml in the .aitranslate/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Model   ModelConfig   `toml:"model"`
	Prompt  PromptConfig  `toml:"prompt"`
	Naming  NamingConfig  `toml:"naming"`
	Stream  StreamConfig  `toml:"stream"`
	Output  OutputConfig  `toml:"output"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
	Debug   DebugConfig   `toml:"debug"`
}

// ModelConfig selects the backend and the model parameters sent with every
// request.
type ModelConfig struct {
	// Backend is "chat" (OpenAI-compatible REST) or "gemini".
	Backend string `toml:"backend,omitempty"`

	// API is the full chat-completions endpoint URL. Unused by gemini.
	API  string `toml:"api,omitempty"`
	Key  string `toml:"key,omitempty"`
	Name string `toml:"name,omitempty"`

	// MaxTokens is nil when unset (DefaultMaxTokens applies). An explicit 0
	// omits the limit from the request.
	MaxTokens *int `toml:"max_tokens,omitempty"`

	// Temperature of 0 means "unset" and falls back to DefaultTemperature.
	Temperature float64 `toml:"temperature,omitempty"`

	Streaming bool   `toml:"streaming,omitempty"`
	Timeout   string `toml:"timeout,omitempty"`
}

// PromptConfig holds optional custom prompt templates.
type PromptConfig struct {
	Translate string `toml:"translate,omitempty"`
	Naming    string `toml:"naming,omitempty"`
}

// NamingConfig holds identifier naming settings.
type NamingConfig struct {
	// Rules is "default" or a free-form naming rule such as "camelCase".
	Rules string `toml:"rules,omitempty"`
}

// StreamConfig tunes the streaming accumulator.
type StreamConfig struct {
	// BufferPartialLines carries a record split across network reads over to
	// the next read instead of dropping it.
	BufferPartialLines bool `toml:"buffer_partial_lines,omitempty"`
}

// OutputConfig controls post-processing of model output.
type OutputConfig struct {
	// StripThinking is nil when unset, which means true.
	StripThinking *bool `toml:"strip_thinking,omitempty"`
}

// ServerConfig holds settings for "aitranslate serve".
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// HistoryConfig controls recording of completed operations.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled,omitempty"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// DebugConfig enables verbose diagnostics.
type DebugConfig struct {
	Mode bool `toml:"mode,omitempty"`
}

// EffectiveMaxTokens returns the max_tokens value to send, or nil when the
// field must be omitted.
func (m ModelConfig) EffectiveMaxTokens() *int {
	if m.MaxTokens == nil {
		n := DefaultMaxTokens
		return &n
	}
	if *m.MaxTokens == 0 {
		return nil
	}
	n := *m.MaxTokens
	return &n
}

// EffectiveTemperature returns the temperature to send.
func (m ModelConfig) EffectiveTemperature() float64 {
	if m.Temperature == 0 {
		return DefaultTemperature
	}
	return m.Temperature
}

// TimeoutDuration parses Timeout, falling back to DefaultTimeout when the
// value is empty or invalid.
func (m ModelConfig) TimeoutDuration() time.Duration {
	if m.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(m.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// StripThinkingEnabled reports whether reasoning blocks are removed from
// model output.
func (o OutputConfig) StripThinkingEnabled() bool {
	return o.StripThinking == nil || *o.StripThinking
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return b, nil
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"model.backend": {
		get: func(c *Config) string { return c.Model.Backend },
		set: func(c *Config, v string) error {
			if v != BackendChat && v != BackendGemini {
				return fmt.Errorf("invalid value for model.backend: %q (available: %s, %s)", v, BackendChat, BackendGemini)
			}
			c.Model.Backend = v
			return nil
		},
	},
	"model.api": {
		get: func(c *Config) string { return c.Model.API },
		set: func(c *Config, v string) error { c.Model.API = v; return nil },
	},
	"model.key": {
		get: func(c *Config) string { return c.Model.Key },
		set: func(c *Config, v string) error { c.Model.Key = v; return nil },
	},
	"model.name": {
		get: func(c *Config) string { return c.Model.Name },
		set: func(c *Config, v string) error { c.Model.Name = v; return nil },
	},
	"model.max_tokens": {
		get: func(c *Config) string {
			if c.Model.MaxTokens == nil {
				return ""
			}
			return strconv.Itoa(*c.Model.MaxTokens)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value for model.max_tokens: %q", v)
			}
			c.Model.MaxTokens = &n
			return nil
		},
	},
	"model.temperature": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Model.Temperature, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 || f > 2 {
				return fmt.Errorf("invalid value for model.temperature: %q", v)
			}
			c.Model.Temperature = f
			return nil
		},
	},
	"model.streaming": {
		get: func(c *Config) string { return strconv.FormatBool(c.Model.Streaming) },
		set: func(c *Config, v string) error {
			b, err := parseBool("model.streaming", v)
			c.Model.Streaming = b
			return err
		},
	},
	"model.timeout": {
		get: func(c *Config) string { return c.Model.Timeout },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("invalid value for model.timeout: %q", v)
			}
			c.Model.Timeout = v
			return nil
		},
	},
	"prompt.translate": {
		get: func(c *Config) string { return c.Prompt.Translate },
		set: func(c *Config, v string) error { c.Prompt.Translate = v; return nil },
	},
	"prompt.naming": {
		get: func(c *Config) string { return c.Prompt.Naming },
		set: func(c *Config, v string) error { c.Prompt.Naming = v; return nil },
	},
	"naming.rules": {
		get: func(c *Config) string { return c.Naming.Rules },
		set: func(c *Config, v string) error { c.Naming.Rules = v; return nil },
	},
	"stream.buffer_partial_lines": {
		get: func(c *Config) string { return strconv.FormatBool(c.Stream.BufferPartialLines) },
		set: func(c *Config, v string) error {
			b, err := parseBool("stream.buffer_partial_lines", v)
			c.Stream.BufferPartialLines = b
			return err
		},
	},
	"output.strip_thinking": {
		get: func(c *Config) string { return strconv.FormatBool(c.Output.StripThinkingEnabled()) },
		set: func(c *Config, v string) error {
			b, err := parseBool("output.strip_thinking", v)
			if err != nil {
				return err
			}
			c.Output.StripThinking = &b
			return nil
		},
	},
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"history.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.History.Enabled) },
		set: func(c *Config, v string) error {
			b, err := parseBool("history.enabled", v)
			c.History.Enabled = b
			return err
		},
	},
	"history.sqlite_path": {
		get: func(c *Config) string { return c.History.SQLitePath },
		set: func(c *Config, v string) error { c.History.SQLitePath = v; return nil },
	},
	"debug.mode": {
		get: func(c *Config) string { return strconv.FormatBool(c.Debug.Mode) },
		set: func(c *Config, v string) error {
			b, err := parseBool("debug.mode", v)
			c.Debug.Mode = b
			return err
		},
	},
}
