package cell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgridgo/internal/component"
	"github.com/zclconf/go-cty/cty"
)

func newCell(t *testing.T, kwargs map[string]cty.Value) *Cell {
	t.Helper()
	comp, err := NewCell(context.Background(), component.Config{
		Name:   "c1",
		Path:   "/net/c1",
		Kwargs: kwargs,
	})
	require.NoError(t, err)
	return comp.(*Cell)
}

func TestNewCell(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := newCell(t, nil)
		assert.Equal(t, 1.0, c.alpha)
		for _, name := range []string{"in", "out", "z"} {
			cp, ok := c.Compartment(name)
			require.True(t, ok, name)
			assert.Equal(t, "/net/c1."+name, cp.Ref())
		}
	})

	t.Run("alpha must be a number", func(t *testing.T) {
		_, err := NewCell(context.Background(), component.Config{
			Name:   "c1",
			Kwargs: map[string]cty.Value{"alpha": cty.StringVal("fast")},
		})
		assert.ErrorContains(t, err, "alpha must be a number")
	})
}

func TestAdvance(t *testing.T) {
	c := newCell(t, map[string]cty.Value{"alpha": cty.NumberFloatVal(0.5)})
	in, _ := c.Compartment("in")

	in.Set(cty.NumberFloatVal(2))
	require.NoError(t, c.Advance())
	out, _ := c.Compartment("out")
	f, _ := out.Value().AsBigFloat().Float64()
	assert.InDelta(t, 2.0, f, 1e-9)

	// Second step leaks the previous state by alpha before accumulating.
	in.Set(cty.NumberFloatVal(4))
	require.NoError(t, c.Advance())
	f, _ = out.Value().AsBigFloat().Float64()
	assert.InDelta(t, 5.0, f, 1e-9)
}

func TestClamp(t *testing.T) {
	c := newCell(t, nil)
	require.NoError(t, c.Clamp("z", cty.NumberIntVal(9)))
	z, _ := c.Compartment("z")
	assert.True(t, cty.NumberIntVal(9).RawEquals(z.Value()))

	err := c.Clamp("nope", cty.NumberIntVal(1))
	assert.ErrorContains(t, err, `no compartment "nope"`)
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c := newCell(t, map[string]cty.Value{"alpha": cty.NumberFloatVal(0.5)})
	in, _ := c.Compartment("in")
	in.Set(cty.NumberFloatVal(3))
	require.NoError(t, c.Advance())
	require.NoError(t, c.SaveState(ctx, dir))

	fresh := newCell(t, nil)
	require.NoError(t, fresh.LoadState(ctx, dir))
	assert.Equal(t, c.state, fresh.state)
	out, _ := fresh.Compartment("out")
	assert.True(t, cty.NumberFloatVal(3).RawEquals(out.Value()))
}

func TestLoadStateMissingFile(t *testing.T) {
	c := newCell(t, nil)
	require.NoError(t, c.LoadState(context.Background(), t.TempDir()))
	// Constructed defaults survive.
	out, _ := c.Compartment("out")
	assert.True(t, cty.NumberIntVal(0).RawEquals(out.Value()))
}
