package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/ops"
)

// ComponentFactory constructs one component instance from its recorded
// construction arguments.
type ComponentFactory func(ctx context.Context, cfg component.Config) (component.Component, error)

// CommandFactory constructs one command instance bound to the given
// components.
type CommandFactory func(ctx context.Context, name string, components []component.Component, cfg command.Config) (command.Command, error)

// OpFactory constructs one op node from its realized sources.
type OpFactory func(sources ...component.Source) (ops.Op, error)

// Attribute is one resolvable entry: a class factory qualified by the module
// that registered it. Exactly one of the factory fields is non-nil.
type Attribute struct {
	Module string
	Name   string

	Component ComponentFactory
	Command   CommandFactory
	Op        OpFactory
}

// Module is the interface all registerable class packages implement.
type Module interface {
	Register(r *Registry)
}

// Registry holds the class factories and resolution caches for a single
// application instance. All state is explicit; there are no package-level
// tables. Writes are guarded by a mutex so a multi-threaded host cannot
// corrupt the maps, but each cache key is only ever written once.
type Registry struct {
	mu sync.Mutex

	// modules maps a dotted module path to the attribute names it exports.
	modules map[string]map[string]*Attribute

	// moduleCache memoizes ResolveModule by the string it was asked for.
	moduleCache map[string]string
	// attributeCache memoizes ResolveAttribute by the string it was asked
	// for. Keyword aliases registered by manifests live here too.
	attributeCache map[string]*Attribute
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		modules:        make(map[string]map[string]*Attribute),
		moduleCache:    make(map[string]string),
		attributeCache: make(map[string]*Attribute),
	}
}

func (r *Registry) register(modulePath, name string, attr *Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mod, ok := r.modules[modulePath]
	if !ok {
		mod = make(map[string]*Attribute)
		r.modules[modulePath] = mod
	}
	if _, exists := mod[name]; exists {
		panic(fmt.Sprintf("class %q already registered in module %q", name, modulePath))
	}
	attr.Module = modulePath
	attr.Name = name
	mod[name] = attr

	// Pre-populate the attribute cache under the bare class name, the way a
	// preload pass would. First registration wins; a name shared by two
	// modules stays resolvable through its module path.
	if _, exists := r.attributeCache[name]; !exists {
		r.attributeCache[name] = attr
	}
}

// RegisterComponentClass registers a component class factory under the given
// module path. Double registration is a programmer error and panics.
func (r *Registry) RegisterComponentClass(modulePath, name string, f ComponentFactory) {
	r.register(modulePath, name, &Attribute{Component: f})
}

// RegisterCommandClass registers a command class factory under the given
// module path.
func (r *Registry) RegisterCommandClass(modulePath, name string, f CommandFactory) {
	r.register(modulePath, name, &Attribute{Command: f})
}

// RegisterOpClass registers an op class factory under the given module path.
func (r *Registry) RegisterOpClass(modulePath, name string, f OpFactory) {
	r.register(modulePath, name, &Attribute{Op: f})
}

// RegisterAlias makes an extra lookup keyword resolve directly to an already
// registered attribute. Aliases come from module manifests.
func (r *Registry) RegisterAlias(alias, modulePath, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mod, ok := r.modules[modulePath]
	if !ok {
		return fmt.Errorf("alias %q: unknown module %q", alias, modulePath)
	}
	attr, ok := mod[name]
	if !ok {
		return fmt.Errorf("alias %q: module %q has no class %q", alias, modulePath, name)
	}
	if existing, ok := r.attributeCache[alias]; ok && existing != attr {
		return fmt.Errorf("alias %q already bound to %s.%s", alias, existing.Module, existing.Name)
	}
	r.attributeCache[alias] = attr
	return nil
}

// HasModule reports whether a module path has registered any classes.
func (r *Registry) HasModule(modulePath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.modules[modulePath]
	return ok
}

// Lookup returns the attribute registered under the exact module path and
// name, without any resolution semantics.
func (r *Registry) Lookup(modulePath, name string) (*Attribute, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mod, ok := r.modules[modulePath]
	if !ok {
		return nil, false
	}
	attr, ok := mod[name]
	return attr, ok
}
