package simctx

import (
	"context"
	"fmt"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/ops"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// BuildComponent resolves a component class by name, constructs an instance
// named within the currently active context, adds it to that context, and
// records the construction call in the build log. This is the single entry
// point for component construction during both assembly and load replay.
func BuildComponent(ctx context.Context, s *Scope, class, name string, args []cty.Value, kwargs map[string]cty.Value) (component.Component, error) {
	cur, ok := s.CurrentContext()
	if !ok {
		return nil, fmt.Errorf("building component %q: no active context", name)
	}

	attr, err := s.Registry().ResolveFromPath(class, registry.ResolveOptions{})
	if err != nil {
		return nil, err
	}
	if attr.Component == nil {
		return nil, fmt.Errorf("class %q is not a component class", class)
	}

	comp, err := attr.Component(ctx, component.Config{
		Name:   name,
		Path:   s.CurrentPath() + "/" + name,
		Args:   args,
		Kwargs: kwargs,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing component %q (class %q): %w", name, class, err)
	}

	cur.AddComponent(ctx, comp)
	cur.RegisterComponent(ctx, comp, class, args, kwargs)
	return comp, nil
}

// BuildCommand resolves a command class by name, constructs an instance
// bound to the given components, adds it to the active context, and records
// the construction call in the build log.
func BuildCommand(ctx context.Context, s *Scope, class, name string, components []component.Component, args []cty.Value, kwargs map[string]cty.Value) (command.Command, error) {
	cur, ok := s.CurrentContext()
	if !ok {
		return nil, fmt.Errorf("building command %q: no active context", name)
	}

	attr, err := s.Registry().ResolveFromPath(class, registry.ResolveOptions{})
	if err != nil {
		return nil, err
	}
	if attr.Command == nil {
		return nil, fmt.Errorf("class %q is not a command class", class)
	}

	cmd, err := attr.Command(ctx, name, components, command.Config{Args: args, Kwargs: kwargs})
	if err != nil {
		return nil, fmt.Errorf("constructing command %q (class %q): %w", name, class, err)
	}

	registered := name
	if registered == "" {
		registered = cmd.Name()
	}
	cur.AddCommand(cmd, registered)
	cur.RegisterCommand(ctx, class, registered, components, args, kwargs)
	return cmd, nil
}

// BindOp binds a constructed op into a destination compartment and records
// the op tree, with its destination, in the active context's build log.
func BindOp(s *Scope, dest *component.Compartment, op ops.Op) error {
	cur, ok := s.CurrentContext()
	if !ok {
		return fmt.Errorf("binding op into %q: no active context", dest.Ref())
	}
	op.SetDestination(dest.Ref())
	dest.Bind(op)
	cur.RegisterOp(op)
	return nil
}
