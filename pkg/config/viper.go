package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/aitranslate/pkg/dotdir"
)

// EnvPrefix prefixes every environment override, e.g. AITRANSLATE_MODEL_KEY.
const EnvPrefix = "AITRANSLATE"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the AITRANSLATE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (AITRANSLATE_MODEL_KEY, AITRANSLATE_SERVER_LISTEN, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Model
	v.SetDefault("model.backend", d.Model.Backend)
	v.SetDefault("model.api", d.Model.API)
	v.SetDefault("model.key", d.Model.Key)
	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.temperature", d.Model.Temperature)
	v.SetDefault("model.streaming", d.Model.Streaming)
	v.SetDefault("model.timeout", d.Model.Timeout)

	// Prompt
	v.SetDefault("prompt.translate", d.Prompt.Translate)
	v.SetDefault("prompt.naming", d.Prompt.Naming)

	v.SetDefault("naming.rules", d.Naming.Rules)
	v.SetDefault("stream.buffer_partial_lines", d.Stream.BufferPartialLines)
	v.SetDefault("output.strip_thinking", d.Output.StripThinkingEnabled())
	v.SetDefault("server.listen", d.Server.Listen)

	// History
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.sqlite_path", d.History.SQLitePath)

	v.SetDefault("debug.mode", d.Debug.Mode)
}

// FromViper builds a Config from the merged viper view. model.max_tokens
// keeps its three states: unset, 0 (omit) and an explicit limit.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Version: v.GetInt("version"),
		Model: ModelConfig{
			Backend:     v.GetString("model.backend"),
			API:         v.GetString("model.api"),
			Key:         v.GetString("model.key"),
			Name:        v.GetString("model.name"),
			Temperature: v.GetFloat64("model.temperature"),
			Streaming:   v.GetBool("model.streaming"),
			Timeout:     v.GetString("model.timeout"),
		},
		Prompt: PromptConfig{
			Translate: v.GetString("prompt.translate"),
			Naming:    v.GetString("prompt.naming"),
		},
		Naming: NamingConfig{
			Rules: v.GetString("naming.rules"),
		},
		Stream: StreamConfig{
			BufferPartialLines: v.GetBool("stream.buffer_partial_lines"),
		},
		Server: ServerConfig{
			Listen: v.GetString("server.listen"),
		},
		History: HistoryConfig{
			Enabled:    v.GetBool("history.enabled"),
			SQLitePath: v.GetString("history.sqlite_path"),
		},
		Debug: DebugConfig{
			Mode: v.GetBool("debug.mode"),
		},
	}

	if v.IsSet("model.max_tokens") {
		n := v.GetInt("model.max_tokens")
		cfg.Model.MaxTokens = &n
	}

	strip := v.GetBool("output.strip_thinking")
	cfg.Output.StripThinking = &strip

	applyDefaults(cfg)
	return cfg
}
