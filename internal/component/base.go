package component

import (
	"github.com/zclconf/go-cty/cty"
)

// Base is an embeddable implementation of the Component surface. Concrete
// classes embed it and add behaviour on top; the framework only ever talks to
// the interface.
type Base struct {
	name         string
	path         string
	compartments map[string]*Compartment
}

// NewBase creates the common component core from a factory Config.
func NewBase(cfg Config) *Base {
	return &Base{
		name:         cfg.Name,
		path:         cfg.Path,
		compartments: make(map[string]*Compartment),
	}
}

// Name implements Component.
func (b *Base) Name() string { return b.name }

// Path implements Component.
func (b *Base) Path() string { return b.path }

// Compartment implements Component.
func (b *Base) Compartment(name string) (*Compartment, bool) {
	c, ok := b.compartments[name]
	return c, ok
}

// AddCompartment registers a new value slot under the given name and returns
// it. Re-adding an existing name returns the original slot unchanged.
func (b *Base) AddCompartment(name string, initial cty.Value) *Compartment {
	if c, ok := b.compartments[name]; ok {
		return c
	}
	c := NewCompartment(b.path+"."+name, initial)
	b.compartments[name] = c
	return c
}

// Compartments returns the slot table. Callers must not mutate it.
func (b *Base) Compartments() map[string]*Compartment { return b.compartments }
