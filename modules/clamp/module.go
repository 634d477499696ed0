// Package clamp provides the Multiclamp command: one invocation clamps a
// whole set of same-named compartments across many components at once.
package clamp

import (
	"context"
	"fmt"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ModulePath is the dotted path this package registers its classes under.
const ModulePath = "simgridgo.modules.clamp"

// Module implements registry.Module for this package.
type Module struct{}

// Register registers the Multiclamp class with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCommandClass(ModulePath, "Multiclamp", NewMulticlamp)
}

// Multiclamp sets a range of values on all compartments with the same name
// across its bound components. The invocation argument it reads is fixed at
// construction time through the "clamp_name" keyword.
type Multiclamp struct {
	*command.Base
	clampName string
}

// NewMulticlamp is the Multiclamp class factory. Every bound component must
// provide the clamp capability, and the "clamp_name" keyword is required; a
// missing binding keyword is a construction-time configuration error.
func NewMulticlamp(ctx context.Context, name string, components []component.Component, cfg command.Config) (command.Command, error) {
	clampVal, ok := cfg.Kwargs["clamp_name"]
	if !ok || clampVal.IsNull() || clampVal.Type() != cty.String {
		return nil, fmt.Errorf("a multiclamp command requires a \"clamp_name\" to bind to for construction")
	}
	if name == "" {
		name = "multiclamp"
	}

	base, err := command.NewBase(name, components, func(c component.Component) error {
		if _, ok := c.(component.Clamper); !ok {
			return fmt.Errorf("component %q is missing the required clamp capability", c.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Multiclamp{Base: base, clampName: clampVal.AsString()}, nil
}

// Execute reads the bound keyword from the invocation arguments; its value
// maps compartment names to the values to clamp. Components lacking a named
// compartment are skipped.
func (m *Multiclamp) Execute(ctx context.Context, args map[string]cty.Value) error {
	vals, err := command.ExtractArgs([]string{m.clampName}, args)
	if err != nil {
		return fmt.Errorf("multiclamp: %w", err)
	}

	target := vals[m.clampName]
	if target.IsNull() || (!target.Type().IsMapType() && !target.Type().IsObjectType()) {
		return fmt.Errorf("multiclamp: argument %q must map compartment names to values", m.clampName)
	}

	for compartment, value := range target.AsValueMap() {
		for _, comp := range m.Components() {
			if _, ok := comp.Compartment(compartment); !ok {
				continue
			}
			if err := comp.(component.Clamper).Clamp(compartment, value); err != nil {
				return fmt.Errorf("multiclamp: %w", err)
			}
		}
	}
	return nil
}
