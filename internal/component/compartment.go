package component

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Compartment is a single addressable value slot on a component. It holds the
// current value and, optionally, one inbound source wired in by an op
// assignment.
type Compartment struct {
	ref     string
	value   cty.Value
	inbound Source
}

// NewCompartment creates a compartment with the given reference string
// ("<component path>.<slot name>") and initial value.
func NewCompartment(ref string, initial cty.Value) *Compartment {
	return &Compartment{ref: ref, value: initial}
}

// Ref returns the compartment's reference string.
func (c *Compartment) Ref() string { return c.ref }

// Value returns the compartment's current value. Compartments are valid op
// sources.
func (c *Compartment) Value() cty.Value { return c.value }

// Set overwrites the compartment's current value.
func (c *Compartment) Set(v cty.Value) { c.value = v }

// Bind wires an inbound source into the compartment. A later Bind replaces
// the earlier one.
func (c *Compartment) Bind(s Source) { c.inbound = s }

// Inbound returns the currently bound source, or nil.
func (c *Compartment) Inbound() Source { return c.inbound }

// Resolve pulls the inbound source's value into the compartment. It is a
// no-op for compartments with no inbound binding.
func (c *Compartment) Resolve() {
	if c.inbound != nil {
		c.value = c.inbound.Value()
	}
}

// SplitRef splits a compartment reference string into its component part and
// slot name. References use a dot before the final segment: "/net/c1.out"
// addresses slot "out" on component "/net/c1"; the bare form "c1.out" is
// relative to the active context.
func SplitRef(ref string) (componentPart, slot string, err error) {
	idx := strings.LastIndex(ref, ".")
	if idx <= 0 || idx == len(ref)-1 {
		return "", "", fmt.Errorf("malformed compartment reference %q", ref)
	}
	return ref[:idx], ref[idx+1:], nil
}
