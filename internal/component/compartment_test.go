package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSplitRef(t *testing.T) {
	t.Run("absolute", func(t *testing.T) {
		comp, slot, err := SplitRef("/net/c1.out")
		require.NoError(t, err)
		assert.Equal(t, "/net/c1", comp)
		assert.Equal(t, "out", slot)
	})

	t.Run("relative", func(t *testing.T) {
		comp, slot, err := SplitRef("c1.out")
		require.NoError(t, err)
		assert.Equal(t, "c1", comp)
		assert.Equal(t, "out", slot)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, ref := range []string{"", "c1", "c1.", ".out"} {
			_, _, err := SplitRef(ref)
			assert.Error(t, err, "ref %q", ref)
		}
	})
}

func TestCompartmentBindResolve(t *testing.T) {
	a := NewCompartment("/net/c1.out", cty.NumberIntVal(3))
	b := NewCompartment("/net/c2.in", cty.NumberIntVal(0))

	// No inbound binding: Resolve is a no-op.
	b.Resolve()
	assert.Equal(t, cty.NumberIntVal(0), b.Value())

	b.Bind(a)
	b.Resolve()
	assert.Equal(t, cty.NumberIntVal(3), b.Value())

	// The binding stays live: later source changes flow on the next Resolve.
	a.Set(cty.NumberIntVal(9))
	b.Resolve()
	assert.Equal(t, cty.NumberIntVal(9), b.Value())
}

func TestBaseCompartments(t *testing.T) {
	base := NewBase(Config{Name: "c1", Path: "/net/c1"})
	out := base.AddCompartment("out", cty.NumberIntVal(0))
	assert.Equal(t, "/net/c1.out", out.Ref())

	// Re-adding returns the original slot.
	again := base.AddCompartment("out", cty.NumberIntVal(7))
	assert.Same(t, out, again)
	assert.Equal(t, cty.NumberIntVal(0), again.Value())

	_, ok := base.Compartment("missing")
	assert.False(t, ok)
}
