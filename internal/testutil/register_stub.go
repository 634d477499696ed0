// Package testutil provides helpers for registering stub classes in tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// StubModulePath is the dotted module path the stub classes register under.
const StubModulePath = "simgridgo.testutil.stub"

// StubComponent is a bare component that remembers the construction
// arguments it was built with. It exposes the compartments named in its
// "compartments" keyword, or "in" and "out" by default.
type StubComponent struct {
	*component.Base
	Cfg component.Config
}

// NewStubComponent is the stub component class factory.
func NewStubComponent(ctx context.Context, cfg component.Config) (component.Component, error) {
	c := &StubComponent{Base: component.NewBase(cfg), Cfg: cfg}
	names := []string{"in", "out"}
	if v, ok := cfg.Kwargs["compartments"]; ok && (v.Type().IsTupleType() || v.Type().IsListType()) {
		names = nil
		for _, elem := range v.AsValueSlice() {
			names = append(names, elem.AsString())
		}
	}
	for _, name := range names {
		c.AddCompartment(name, cty.NumberIntVal(0))
	}
	return c, nil
}

// StubCommand is a command that counts its executions.
type StubCommand struct {
	*command.Base
	Calls int
}

// Execute implements command.Command.
func (s *StubCommand) Execute(ctx context.Context, args map[string]cty.Value) error {
	s.Calls++
	return nil
}

// NewStubCommand is the stub command class factory.
func NewStubCommand(ctx context.Context, name string, components []component.Component, cfg command.Config) (command.Command, error) {
	if name == "" {
		name = "stub"
	}
	base, err := command.NewBase(name, components)
	if err != nil {
		return nil, err
	}
	return &StubCommand{Base: base}, nil
}

// StubModule registers the stub classes under StubModulePath, optionally
// under extra class names so tests can reference several distinct classes.
type StubModule struct {
	// ExtraComponentClasses registers NewStubComponent under these
	// additional names.
	ExtraComponentClasses []string
}

// Register implements the registry.Module interface.
func (m *StubModule) Register(r *registry.Registry) {
	r.RegisterComponentClass(StubModulePath, "StubComponent", NewStubComponent)
	r.RegisterCommandClass(StubModulePath, "StubCommand", NewStubCommand)
	for _, name := range m.ExtraComponentClasses {
		r.RegisterComponentClass(StubModulePath, name, NewStubComponent)
	}
}

// FailingCompiler returns a compiler collaborator that always fails, for
// exercising fatal compile paths.
func FailingCompiler() command.Compiler {
	return func(ctx context.Context, compileKey string, components ...component.Component) (command.Command, []string, error) {
		return nil, nil, fmt.Errorf("no such compile key %q", compileKey)
	}
}

// RecordingCompiler returns a compiler collaborator that produces a
// StubCommand for any key and records the keys it compiled.
func RecordingCompiler(keys *[]string) command.Compiler {
	return func(ctx context.Context, compileKey string, components ...component.Component) (command.Command, []string, error) {
		*keys = append(*keys, compileKey)
		cmd, err := NewStubCommand(ctx, compileKey, components, command.Config{})
		if err != nil {
			return nil, nil, err
		}
		return cmd, []string{"t"}, nil
	}
}
