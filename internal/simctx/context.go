package simctx

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/ctxlog"
	"github.com/vk/simgridgo/internal/ctyutil"
	"github.com/vk/simgridgo/internal/ops"
	"github.com/zclconf/go-cty/cty"
)

// Context is a hierarchically named scope owning a set of components and
// commands and the build log that records how they were constructed. A
// context's path is immutable after creation and there is exactly one
// instance per path for the lifetime of its Scope.
type Context struct {
	name  string
	path  string
	scope *Scope

	// lastPath is the cursor value saved by Enter and restored by Exit.
	lastPath string

	components map[string]component.Component
	commands   map[string]command.Command

	// Capability bindings, detected once when a component is added.
	savers  map[string]component.Saver
	loaders map[string]component.Loader

	spec *BuildSpec
}

// GetOrCreate returns the context registered at currentPath/name, creating
// and registering a new one when none exists. Identity is resolved against
// the scope table before any mutable state is touched, so re-construction
// with the same name is idempotent regardless of any other arguments a
// caller might have wanted to apply.
func GetOrCreate(s *Scope, name string) (*Context, error) {
	if name == "" {
		return nil, fmt.Errorf("context name must not be empty")
	}
	if strings.ContainsAny(name, "/.") {
		return nil, fmt.Errorf("context name %q must not contain path separators", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.current + "/" + name
	if existing, ok := s.contexts[path]; ok {
		return existing, nil
	}

	c := &Context{
		name:       name,
		path:       path,
		scope:      s,
		components: make(map[string]component.Component),
		commands:   make(map[string]command.Command),
		savers:     make(map[string]component.Saver),
		loaders:    make(map[string]component.Loader),
		spec:       NewBuildSpec(),
	}
	s.contexts[path] = c
	return c, nil
}

// Name returns the context's name (the final path segment).
func (c *Context) Name() string { return c.name }

// Path returns the context's absolute path.
func (c *Context) Path() string { return c.path }

// Spec returns the context's build log.
func (c *Context) Spec() *BuildSpec { return c.spec }

// Enter pushes the context's path as the scope's current path, saving the
// previous cursor for Exit. Entry must be strictly nested with Exit.
func (c *Context) Enter() *Context {
	c.lastPath = c.scope.CurrentPath()
	c.scope.SetCurrentPath(c.path)
	return c
}

// Exit restores the path cursor that was active before Enter.
func (c *Context) Exit() {
	c.scope.SetCurrentPath(c.lastPath)
}

// AddComponent registers a component under its name. Names are unique per
// context; a duplicate is skipped with a diagnostic and never aborts the
// caller. Save/load capabilities are detected here, once.
func (c *Context) AddComponent(ctx context.Context, comp component.Component) {
	logger := ctxlog.FromContext(ctx)
	if _, exists := c.components[comp.Name()]; exists {
		logger.Warn("Component name already exists in context, not added.",
			"context", c.path, "component", comp.Name())
		return
	}
	c.components[comp.Name()] = comp
	if s, ok := comp.(component.Saver); ok {
		c.savers[comp.Name()] = s
	}
	if l, ok := comp.(component.Loader); ok {
		c.loaders[comp.Name()] = l
	}
}

// AddCommand registers a command under the override name, or the command's
// own name when the override is empty. The command becomes invocable through
// Run, the Go rendition of binding it as a context attribute.
func (c *Context) AddCommand(cmd command.Command, name string) {
	if name == "" {
		name = cmd.Name()
	}
	c.commands[name] = cmd
}

// Command returns the command registered under the given name.
func (c *Context) Command(name string) (command.Command, bool) {
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Run invokes the named command with the given arguments.
func (c *Context) Run(ctx context.Context, name string, args map[string]cty.Value) error {
	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Errorf("context %q has no command %q", c.path, name)
	}
	return cmd.Execute(ctx, args)
}

// Component returns the named component, if present.
func (c *Context) Component(name string) (component.Component, bool) {
	comp, ok := c.components[name]
	return comp, ok
}

// GetComponents returns the components for the requested names, in request
// order. Unresolved names produce a diagnostic and are omitted.
func (c *Context) GetComponents(ctx context.Context, names ...string) []component.Component {
	logger := ctxlog.FromContext(ctx)
	out := make([]component.Component, 0, len(names))
	for _, name := range names {
		comp, ok := c.components[name]
		if !ok {
			logger.Warn("Could not find a component with that name in the context.",
				"context", c.path, "component", name)
			continue
		}
		out = append(out, comp)
	}
	return out
}

// SaverFor returns the save capability recorded for the named component.
func (c *Context) SaverFor(name string) (component.Saver, bool) {
	s, ok := c.savers[name]
	return s, ok
}

// LoaderFor returns the load capability recorded for the named component.
func (c *Context) LoaderFor(name string) (component.Loader, bool) {
	l, ok := c.loaders[name]
	return l, ok
}

// ComponentNames returns the registered component names in no particular
// order.
func (c *Context) ComponentNames() []string {
	names := make([]string, 0, len(c.components))
	for name := range c.components {
		names = append(names, name)
	}
	return names
}

// RegisterComponent appends a component's construction record to the build
// log. Registration is idempotent per component path. Argument values with
// no JSON representation are dropped with a diagnostic; dropping is never
// fatal.
func (c *Context) RegisterComponent(ctx context.Context, comp component.Component, class string, args []cty.Value, kwargs map[string]cty.Value) {
	logger := ctxlog.FromContext(ctx)
	path := comp.Path()
	if _, exists := c.spec.Components[path]; exists {
		return
	}

	rec := &ComponentSpec{
		Class:  class,
		Args:   make([]cty.Value, 0, len(args)),
		Kwargs: make(map[string]cty.Value, len(kwargs)),
	}
	for i, a := range args {
		if !ctyutil.Encodable(a) {
			logger.Info("Failed to serialize positional argument, dropping it.",
				"component", path, "index", i)
			continue
		}
		rec.Args = append(rec.Args, a)
	}
	for key, v := range kwargs {
		if !ctyutil.Encodable(v) {
			logger.Info("Failed to serialize keyword argument, dropping it.",
				"component", path, "key", key)
			continue
		}
		rec.Kwargs[key] = v
	}

	c.spec.Components[path] = rec
	c.spec.ComponentOrder = append(c.spec.ComponentOrder, path)
}

// RegisterCommand appends a static command construction record to the build
// log under the given name.
func (c *Context) RegisterCommand(ctx context.Context, class, name string, components []component.Component, args []cty.Value, kwargs map[string]cty.Value) {
	names := make([]string, 0, len(components))
	for _, comp := range components {
		names = append(names, comp.Name())
	}
	if _, exists := c.spec.Commands[name]; !exists {
		c.spec.CommandOrder = append(c.spec.CommandOrder, name)
	}
	c.spec.Commands[name] = &CommandSpec{
		Class:      class,
		Components: names,
		Args:       args,
		Kwargs:     kwargs,
	}
}

// RegisterOp appends an op's dumped tree to the build log.
func (c *Context) RegisterOp(op ops.Op) {
	c.spec.Ops = append(c.spec.Ops, op.Dump())
}

// CompileCommandKey delegates to the scope's compiler collaborator, then
// registers the result both as a live command and as a dynamic-compiled
// record in the build log. The registered name defaults to the compile key.
func (c *Context) CompileCommandKey(ctx context.Context, compileKey, name string, components ...component.Component) (command.Command, []string, error) {
	if c.scope.compiler == nil {
		return nil, nil, fmt.Errorf("context %q: no command compiler configured, cannot compile key %q", c.path, compileKey)
	}
	cmd, argNames, err := c.scope.compiler(ctx, compileKey, components...)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling command key %q: %w", compileKey, err)
	}
	if name == "" {
		name = compileKey
	}

	compNames := make([]string, 0, len(components))
	for _, comp := range components {
		compNames = append(compNames, comp.Name())
	}
	if _, exists := c.spec.Commands[name]; !exists {
		c.spec.CommandOrder = append(c.spec.CommandOrder, name)
	}
	c.spec.Commands[name] = &CommandSpec{
		Class:      DynamicCompiledClass,
		Components: compNames,
		CompileKey: compileKey,
	}
	c.AddCommand(cmd, name)
	return cmd, argNames, nil
}

// CompartmentByRef resolves a compartment reference string against this
// context. Both the absolute form "/net/c1.out" and the context-relative
// form "c1.out" are accepted.
func (c *Context) CompartmentByRef(ref string) (*component.Compartment, error) {
	compPart, slot, err := component.SplitRef(ref)
	if err != nil {
		return nil, err
	}

	// Absolute references carry the path assigned at save time; only the
	// final segment identifies the component within this context, so a model
	// can be reloaded under a different context name.
	compName := compPart
	if idx := strings.LastIndex(compPart, "/"); idx >= 0 {
		compName = compPart[idx+1:]
	}

	comp, ok := c.components[compName]
	if !ok {
		return nil, fmt.Errorf("reference %q: context %q has no component %q", ref, c.path, compName)
	}
	cp, ok := comp.Compartment(slot)
	if !ok {
		return nil, fmt.Errorf("reference %q: component %q has no compartment %q", ref, compName, slot)
	}
	return cp, nil
}
