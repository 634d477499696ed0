package component

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Component is a named, stateful unit participating in a simulated network.
type Component interface {
	// Name is the component's name, unique within its owning context.
	Name() string
	// Path is the absolute path assigned at construction time, e.g. "/net/c1".
	Path() string
	// Compartment returns the named value slot, if the component exposes it.
	Compartment(name string) (*Compartment, bool)
}

// Config carries everything a class factory needs to build one component
// instance. Args and Kwargs are the recorded construction arguments; they are
// also what gets replayed on load, so factories must treat them as the full
// construction record.
type Config struct {
	Name   string
	Path   string
	Args   []cty.Value
	Kwargs map[string]cty.Value
}

// Saver is the optional capability for components that persist state into a
// model's custom data directory.
type Saver interface {
	SaveState(ctx context.Context, dir string) error
}

// Loader is the optional capability for components that restore state from a
// model's custom data directory.
type Loader interface {
	LoadState(ctx context.Context, dir string) error
}

// Clamper is the optional capability for components whose compartments can be
// forced to a value from outside the op system.
type Clamper interface {
	Clamp(compartment string, value cty.Value) error
}

// Source is anything that can produce a value for the op system: a
// compartment, or a constructed op node.
type Source interface {
	Value() cty.Value
}
