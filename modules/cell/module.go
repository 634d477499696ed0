// Package cell provides a minimal stateful cell component: a leaky
// accumulator with input, output, and trace compartments. It exists both as
// a usable building block and as the reference implementation of the full
// component surface (construction record replay, clamping, custom state
// save/load).
package cell

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/ctyutil"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// ModulePath is the dotted path this package registers its classes under.
const ModulePath = "simgridgo.modules.cell"

// Module implements registry.Module for this package.
type Module struct{}

// Register registers the Cell class with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponentClass(ModulePath, "Cell", NewCell)
}

// Cell is a leaky accumulator. Each Advance folds the "in" compartment into
// the internal state scaled by alpha and publishes the result on "out".
type Cell struct {
	*component.Base

	alpha float64
	state float64
}

// NewCell is the Cell class factory. Recognized keywords: "alpha" (leak
// coefficient, default 1.0). Unrecognized keywords are construction record
// passthrough and ignored here.
func NewCell(ctx context.Context, cfg component.Config) (component.Component, error) {
	c := &Cell{Base: component.NewBase(cfg), alpha: 1.0}

	if v, ok := cfg.Kwargs["alpha"]; ok {
		if v.Type() != cty.Number || v.IsNull() {
			return nil, fmt.Errorf("cell %q: alpha must be a number", cfg.Name)
		}
		f, _ := v.AsBigFloat().Float64()
		c.alpha = f
	}

	c.AddCompartment("in", cty.NumberIntVal(0))
	c.AddCompartment("out", cty.NumberIntVal(0))
	c.AddCompartment("z", cty.NumberIntVal(0))
	return c, nil
}

// Clamp implements the component.Clamper capability.
func (c *Cell) Clamp(compartment string, value cty.Value) error {
	cp, ok := c.Compartment(compartment)
	if !ok {
		return fmt.Errorf("cell %q has no compartment %q", c.Name(), compartment)
	}
	cp.Set(value)
	return nil
}

// Advance performs one update step: pull bound inputs, fold them into the
// internal state, publish.
func (c *Cell) Advance() error {
	in, _ := c.Compartment("in")
	in.Resolve()
	v := in.Value()
	if v.Type() == cty.Number && !v.IsNull() {
		f, _ := v.AsBigFloat().Float64()
		c.state = c.state*c.alpha + f
	}

	out, _ := c.Compartment("out")
	out.Set(cty.NumberFloatVal(c.state))
	z, _ := c.Compartment("z")
	z.Set(cty.NumberFloatVal(c.state))
	return nil
}

// cellState is the on-disk shape of a cell's custom state file.
type cellState struct {
	State        float64                    `json:"state"`
	Compartments map[string]json.RawMessage `json:"compartments"`
}

// SaveState implements the component.Saver capability; it writes
// <name>.json into the custom directory.
func (c *Cell) SaveState(ctx context.Context, dir string) error {
	st := cellState{State: c.state, Compartments: make(map[string]json.RawMessage)}
	for name, cp := range c.Compartments() {
		raw, err := ctyutil.ToJSON(cp.Value())
		if err != nil {
			return fmt.Errorf("cell %q: compartment %q: %w", c.Name(), name, err)
		}
		st.Compartments[name] = raw
	}
	data, err := json.MarshalIndent(st, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, c.Name()+".json"), data, 0o644)
}

// LoadState implements the component.Loader capability. A missing state file
// is not an error; the cell keeps its constructed defaults.
func (c *Cell) LoadState(ctx context.Context, dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, c.Name()+".json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var st cellState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("cell %q: parsing state file: %w", c.Name(), err)
	}
	c.state = st.State
	for name, raw := range st.Compartments {
		cp, ok := c.Compartment(name)
		if !ok {
			continue
		}
		v, err := ctyutil.FromJSON(raw)
		if err != nil {
			return fmt.Errorf("cell %q: compartment %q: %w", c.Name(), name, err)
		}
		cp.Set(v)
	}
	return nil
}
