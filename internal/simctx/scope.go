package simctx

import (
	"sync"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/registry"
)

// Scope is the registry of contexts for one assembly session, plus the
// single mutable "current path" cursor. Registration is add-only: a context
// lives for the lifetime of its Scope once created.
type Scope struct {
	mu       sync.Mutex
	registry *registry.Registry
	compiler command.Compiler
	contexts map[string]*Context
	current  string
}

// NewScope creates an empty scope backed by the given class registry. The
// compiler collaborator may be nil when no dynamically compiled commands are
// expected; attempting to compile one then fails with a configuration error.
func NewScope(reg *registry.Registry, compiler command.Compiler) *Scope {
	return &Scope{
		registry: reg,
		compiler: compiler,
		contexts: make(map[string]*Context),
	}
}

// Registry returns the class registry backing this scope.
func (s *Scope) Registry() *registry.Registry { return s.registry }

// Context returns the context registered under the given absolute path.
func (s *Scope) Context(path string) (*Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contexts[path]
	return c, ok
}

// CurrentPath returns the active path cursor. At the root it is "".
func (s *Scope) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrentPath moves the active path cursor. Callers are responsible for
// LIFO discipline; Context.Enter and Context.Exit maintain it for the
// common case.
func (s *Scope) SetCurrentPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = path
}

// CurrentContext returns the context registered at the active path, if any.
func (s *Scope) CurrentContext() (*Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contexts[s.current]
	return c, ok
}

// Contexts returns the number of registered contexts.
func (s *Scope) Contexts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contexts)
}
