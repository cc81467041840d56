package translate

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrNoEngine is returned by a Switch that has not been given an engine.
var ErrNoEngine = errors.New("no translation engine configured")

// Switch forwards every call to the engine currently installed, so callers
// can hold one Translator while the engine is rebuilt on configuration
// reloads. In-flight calls finish on the engine they started with.
type Switch struct {
	current atomic.Pointer[Engine]
}

var (
	_ Translator = (*Switch)(nil)
	_ Namer      = (*Switch)(nil)
)

// NewSwitch returns a Switch holding e.
func NewSwitch(e *Engine) *Switch {
	s := &Switch{}
	s.Set(e)
	return s
}

// Engine returns the installed engine, or nil.
func (s *Switch) Engine() *Engine {
	return s.current.Load()
}

// Set installs e for subsequent calls.
func (s *Switch) Set(e *Engine) {
	s.current.Store(e)
}

func (s *Switch) Translate(ctx context.Context, content string, opts Options) (string, error) {
	e := s.Engine()
	if e == nil {
		return "", ErrNoEngine
	}
	return e.Translate(ctx, content, opts)
}

func (s *Switch) Link(content string, opts Options) string {
	e := s.Engine()
	if e == nil {
		return content
	}
	return e.Link(content, opts)
}

func (s *Switch) IsSupported(src string) bool {
	e := s.Engine()
	if e == nil {
		return false
	}
	return e.IsSupported(src)
}

func (s *Switch) Name(ctx context.Context, req NamingRequest) (string, error) {
	e := s.Engine()
	if e == nil {
		return "", ErrNoEngine
	}
	return e.Name(ctx, req)
}
