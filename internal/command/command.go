// Package command defines the contract for named, invocable procedures bound
// to a set of components, plus the embeddable Base that enforces required
// component capabilities at construction time.
package command

import (
	"context"
	"fmt"

	"github.com/vk/simgridgo/internal/component"
	"github.com/zclconf/go-cty/cty"
)

// Command is a named procedure operating on the components it was bound to at
// construction.
type Command interface {
	Name() string
	Execute(ctx context.Context, args map[string]cty.Value) error
}

// Config carries the recorded construction arguments for a command class
// factory, mirroring component.Config.
type Config struct {
	Args   []cty.Value
	Kwargs map[string]cty.Value
}

// Compiler is the external collaborator that turns a compile key plus a set
// of components into an executable command and the argument names it needs.
// The compilation algorithm itself is outside this package.
type Compiler func(ctx context.Context, compileKey string, components ...component.Component) (Command, []string, error)

// CapabilityCheck inspects one component and reports an error when it lacks a
// capability the command depends on.
type CapabilityCheck func(c component.Component) error

// Base is the embeddable core of a command: its name and component bindings.
type Base struct {
	name       string
	components map[string]component.Component
	order      []string
}

// NewBase builds the command core, verifying every component against the
// supplied capability checks. A failed check is fatal and names the offending
// component.
func NewBase(name string, components []component.Component, checks ...CapabilityCheck) (*Base, error) {
	b := &Base{
		name:       name,
		components: make(map[string]component.Component, len(components)),
	}
	for _, c := range components {
		if c == nil {
			return nil, fmt.Errorf("command %q: nil component binding", name)
		}
		for _, check := range checks {
			if err := check(c); err != nil {
				return nil, fmt.Errorf("command %q: %w", name, err)
			}
		}
		b.components[c.Name()] = c
		b.order = append(b.order, c.Name())
	}
	return b, nil
}

// Name implements Command.
func (b *Base) Name() string { return b.name }

// Components returns the bound components in binding order.
func (b *Base) Components() []component.Component {
	out := make([]component.Component, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, b.components[n])
	}
	return out
}

// ExtractArgs pulls the required keys out of an invocation's argument map.
// A missing key is a configuration error, surfaced immediately.
func ExtractArgs(required []string, args map[string]cty.Value) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(required))
	for _, key := range required {
		v, ok := args[key]
		if !ok {
			return nil, fmt.Errorf("missing required argument %q", key)
		}
		out[key] = v
	}
	return out, nil
}
