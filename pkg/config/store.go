package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader produces a fresh Config, typically by re-reading config.toml.
type Loader func() (*Config, error)

// FileLoader loads config.toml from the resolved .aitranslate/ directory,
// applying defaults for missing fields.
func FileLoader(configDir string) Loader {
	return func() (*Config, error) {
		cfger, err := NewConfiger(configDir)
		if err != nil {
			return nil, err
		}
		return cfger.LoadConfig()
	}
}

// ViperLoader loads the full precedence chain (defaults, file, environment,
// flags). bind, when non-nil, is called on every new viper instance so CLI
// flags keep overriding file values across reloads.
func ViperLoader(configDir string, bind func(*viper.Viper)) Loader {
	return func() (*Config, error) {
		v, err := InitViper(configDir)
		if err != nil {
			return nil, err
		}
		if bind != nil {
			bind(v)
		}
		return FromViper(v), nil
	}
}

// Store holds the current configuration and replaces it on explicit
// reloads. It is safe for concurrent use.
type Store struct {
	load    Loader
	current atomic.Pointer[Config]

	// serializes reloads so a slow load cannot overwrite a newer one
	mu sync.Mutex
}

// NewStore creates a Store and performs the initial load.
func NewStore(load Loader) (*Store, error) {
	s := &Store{load: load}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore returns a Store that always holds cfg. Reload is a no-op.
func NewStaticStore(cfg *Config) *Store {
	s := &Store{load: func() (*Config, error) { return cfg, nil }}
	s.current.Store(cfg)
	return s
}

// Current returns the configuration in effect. Callers must treat it as
// read-only.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Reload re-reads the configuration. On failure the previous configuration
// stays in effect.
func (s *Store) Reload() (*Config, error) {
	return s.ReloadWith(nil)
}

// ReloadWith re-reads the configuration and passes it to apply before it
// becomes current. When either the load or apply fails the previous
// configuration stays in effect, so Current never reports a config that
// apply rejected.
func (s *Store) ReloadWith(apply func(*Config) error) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("reloading config: %w", err)
	}
	if cfg == nil {
		return nil, errors.New("reloading config: loader returned nil")
	}

	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, fmt.Errorf("applying config: %w", err)
		}
	}

	s.current.Store(cfg)
	return cfg, nil
}

// Watch reloads the configuration through ReloadWith(apply) whenever
// config.toml in dir is written or created, and reports each attempt to
// onReload. It blocks until ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context, dir string, apply func(*Config) error, onReload func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching config dir: %w", err)
	}

	target := filepath.Join(filepath.Clean(dir), FileName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := s.ReloadWith(apply)
			if onReload != nil {
				onReload(cfg, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config watcher error: %w", err)
		}
	}
}
