package config

import (
	"errors"
	"fmt"
)

// Configuration errors. These are reported before any request is made.
var (
	ErrMissingEndpoint = errors.New("model.api is not configured")
	ErrMissingKey      = errors.New("model.key is not configured")
	ErrMissingModel    = errors.New("model.name is not configured")
	ErrUnknownBackend  = errors.New("unknown model backend")
)

// Validate checks that cfg carries everything the selected backend needs.
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case BackendChat, "":
		if c.Model.API == "" {
			return ErrMissingEndpoint
		}
	case BackendGemini:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Model.Backend)
	}

	if c.Model.Key == "" {
		return ErrMissingKey
	}
	if c.Model.Name == "" {
		return ErrMissingModel
	}
	return nil
}

// IsConfigError reports whether err is one of the configuration errors.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingEndpoint) ||
		errors.Is(err, ErrMissingKey) ||
		errors.Is(err, ErrMissingModel) ||
		errors.Is(err, ErrUnknownBackend)
}
