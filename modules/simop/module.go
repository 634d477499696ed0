// Package simop provides the basic data-flow op classes: Add sums its
// sources, Overwrite passes a single source through unchanged.
package simop

import (
	"fmt"
	"math/big"

	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/ops"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ModulePath is the dotted path this package registers its classes under.
const ModulePath = "simgridgo.modules.simop"

// Module implements registry.Module for this package.
type Module struct{}

// Register registers the op classes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterOpClass(ModulePath, "Add", NewAdd)
	r.RegisterOpClass(ModulePath, "Overwrite", NewOverwrite)
}

// Add is the summation op: its value is the numeric sum of all sources.
type Add struct {
	ops.Base
}

// NewAdd is the Add class factory.
func NewAdd(sources ...component.Source) (ops.Op, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("add op requires at least one source")
	}
	return &Add{Base: ops.NewBase("Add", sources...)}, nil
}

// Value sums the current values of all sources. Non-numeric sources
// contribute nothing.
func (a *Add) Value() cty.Value {
	sum := new(big.Float)
	for _, s := range a.Sources() {
		v := s.Value()
		if v.Type() != cty.Number || v.IsNull() {
			continue
		}
		sum.Add(sum, v.AsBigFloat())
	}
	return cty.NumberVal(sum)
}

// Overwrite passes its single source through; binding it into a compartment
// replaces that compartment's value wholesale.
type Overwrite struct {
	ops.Base
}

// NewOverwrite is the Overwrite class factory.
func NewOverwrite(sources ...component.Source) (ops.Op, error) {
	if len(sources) != 1 {
		return nil, fmt.Errorf("overwrite op requires exactly one source, got %d", len(sources))
	}
	return &Overwrite{Base: ops.NewBase("Overwrite", sources...)}, nil
}

// Value returns the source's current value.
func (o *Overwrite) Value() cty.Value {
	return o.Sources()[0].Value()
}
