package command

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgridgo/internal/component"
	"github.com/zclconf/go-cty/cty"
)

func TestNewBase(t *testing.T) {
	c1 := component.NewBase(component.Config{Name: "c1", Path: "/net/c1"})
	c2 := component.NewBase(component.Config{Name: "c2", Path: "/net/c2"})

	t.Run("preserves binding order", func(t *testing.T) {
		b, err := NewBase("cmd", []component.Component{c2, c1})
		require.NoError(t, err)
		got := b.Components()
		require.Len(t, got, 2)
		assert.Equal(t, "c2", got[0].Name())
		assert.Equal(t, "c1", got[1].Name())
	})

	t.Run("failed capability check names the component", func(t *testing.T) {
		reject := func(c component.Component) error {
			return fmt.Errorf("component %q is missing the required poke capability", c.Name())
		}
		_, err := NewBase("cmd", []component.Component{c1}, reject)
		require.Error(t, err)
		assert.ErrorContains(t, err, "c1")
		assert.ErrorContains(t, err, "poke")
	})

	t.Run("nil component is rejected", func(t *testing.T) {
		_, err := NewBase("cmd", []component.Component{nil})
		assert.Error(t, err)
	})
}

func TestExtractArgs(t *testing.T) {
	args := map[string]cty.Value{
		"vals": cty.NumberIntVal(1),
	}

	got, err := ExtractArgs([]string{"vals"}, args)
	require.NoError(t, err)
	assert.Equal(t, cty.NumberIntVal(1), got["vals"])

	_, err = ExtractArgs([]string{"other"}, args)
	require.Error(t, err)
	assert.ErrorContains(t, err, "other")
}
