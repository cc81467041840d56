// Package setup holds the wiring shared by commands that talk to a model:
// resolving the configuration through viper and building loggers.
package setup

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/aitranslate/pkg/cliui"
	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/dotdir"
	"github.com/papercomputeco/aitranslate/pkg/logger"
)

// Global flag names registered on the root command.
const (
	FlagDebug     = "debug"
	FlagConfigDir = "config-dir"
)

// ConfigDir returns the --config-dir override, or "".
func ConfigDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString(FlagConfigDir)
	return dir
}

// Debug reports whether --debug was passed.
func Debug(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool(FlagDebug)
	return debug
}

// Binder returns a function that binds the given registry flags of cmd onto
// a viper instance, for use with config.ViperLoader.
func Binder(cmd *cobra.Command, fs config.FlagSet, keys []string) func(*viper.Viper) {
	return func(v *viper.Viper) {
		config.BindRegisteredFlags(v, cmd, fs, keys)
	}
}

// NewStore builds a config store that resolves defaults, config.toml,
// AITRANSLATE_* environment variables and the given flags, in increasing
// precedence.
func NewStore(cmd *cobra.Command, fs config.FlagSet, keys []string) (*config.Store, error) {
	store, err := config.NewStore(config.ViperLoader(ConfigDir(cmd), Binder(cmd, fs, keys)))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return store, nil
}

// LoadConfig resolves the configuration once.
func LoadConfig(cmd *cobra.Command, fs config.FlagSet, keys []string) (*config.Config, error) {
	store, err := NewStore(cmd, fs, keys)
	if err != nil {
		return nil, err
	}
	return store.Current(), nil
}

// NewLogger returns the CLI logger: pretty output on stderr, at debug level
// when --debug or debug.mode is set.
func NewLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	debug := Debug(cmd) || (cfg != nil && cfg.Debug.Mode)
	return logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(cliui.IsTerminal(cmd.ErrOrStderr())),
		logger.WithWriter(cmd.ErrOrStderr()),
	)
}

// OpenDebugLog opens the JSON debug log in the .aitranslate/ directory for
// appending. The caller closes the returned writer.
func OpenDebugLog(configDir string) (io.WriteCloser, string, error) {
	path, err := dotdir.NewManager().DebugLogPath(configDir)
	if err != nil {
		return nil, "", err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, "", fmt.Errorf("opening debug log: %w", err)
	}
	return f, path, nil
}
