/*
Package ops models data-flow expressions between component compartments as an
explicit tagged tree.

A Spec is the serializable form of one op: a class name, a list of sources
(each either a compartment reference string or a nested Spec), and an
optional destination reference. A live Op is the constructed object; it can
produce a value like any other source and can dump itself back into a Spec,
which is what the context's build log records.
*/
package ops

import (
	"encoding/json"
	"fmt"

	"github.com/vk/simgridgo/internal/component"
)

// Spec is the serialized descriptor of one op expression. Destination is nil
// for ops that only feed an enclosing expression.
type Spec struct {
	Class       string  `json:"class"`
	Sources     []Arg   `json:"sources"`
	Destination *string `json:"destination"`
}

// Arg is one entry in a Spec's source list: either a compartment reference
// string or a nested op. Exactly one field is set.
type Arg struct {
	Ref  string
	Node *Spec
}

// MarshalJSON writes a reference as a bare string and a nested op as an
// object, matching the on-disk schema.
func (a Arg) MarshalJSON() ([]byte, error) {
	if a.Node != nil {
		return json.Marshal(a.Node)
	}
	return json.Marshal(a.Ref)
}

// UnmarshalJSON accepts either form.
func (a *Arg) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty op source")
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &a.Ref)
	}
	a.Node = &Spec{}
	return json.Unmarshal(data, a.Node)
}

// Op is a constructed op node. It is a valid source for enclosing ops.
type Op interface {
	component.Source
	// Dump converts the live node back into its serializable Spec tree.
	Dump() *Spec
	// SetDestination records the compartment reference this op was bound
	// into, so the dumped Spec replays the assignment.
	SetDestination(ref string)
}

// Base is the embeddable core of an op class: the class name it was resolved
// by, its realized sources, and the destination binding if any.
type Base struct {
	class       string
	sources     []component.Source
	destination *string
}

// NewBase creates the op core for a class constructed from the given sources.
func NewBase(class string, sources ...component.Source) Base {
	return Base{class: class, sources: sources}
}

// Class returns the class name the op was constructed under.
func (b *Base) Class() string { return b.class }

// Sources returns the realized sources in construction order.
func (b *Base) Sources() []component.Source { return b.sources }

// SetDestination implements Op.
func (b *Base) SetDestination(ref string) { b.destination = &ref }

// Dump implements Op. Compartment sources dump as their reference strings;
// op sources recurse.
func (b *Base) Dump() *Spec {
	spec := &Spec{Class: b.class, Destination: b.destination}
	for _, s := range b.sources {
		switch src := s.(type) {
		case *component.Compartment:
			spec.Sources = append(spec.Sources, Arg{Ref: src.Ref()})
		case Op:
			spec.Sources = append(spec.Sources, Arg{Node: src.Dump()})
		default:
			// Unknown source kinds have no serial form; record a hole so the
			// mismatch is visible in the document rather than silent.
			spec.Sources = append(spec.Sources, Arg{Ref: fmt.Sprintf("<unserializable source %T>", s)})
		}
	}
	return spec
}
