package ops

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgridgo/internal/component"
	"github.com/zclconf/go-cty/cty"
)

// passthrough is a minimal op for dump tests.
type passthrough struct {
	Base
}

func (p *passthrough) Value() cty.Value {
	return p.Sources()[0].Value()
}

func TestArgJSON(t *testing.T) {
	t.Run("reference round trip", func(t *testing.T) {
		data, err := json.Marshal(Arg{Ref: "/net/c1.out"})
		require.NoError(t, err)
		assert.JSONEq(t, `"/net/c1.out"`, string(data))

		var back Arg
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, "/net/c1.out", back.Ref)
		assert.Nil(t, back.Node)
	})

	t.Run("nested op round trip", func(t *testing.T) {
		arg := Arg{Node: &Spec{Class: "Add", Sources: []Arg{{Ref: "/net/c1.out"}}}}
		data, err := json.Marshal(arg)
		require.NoError(t, err)

		var back Arg
		require.NoError(t, json.Unmarshal(data, &back))
		require.NotNil(t, back.Node)
		assert.Equal(t, "Add", back.Node.Class)
		require.Len(t, back.Node.Sources, 1)
		assert.Equal(t, "/net/c1.out", back.Node.Sources[0].Ref)
		assert.Nil(t, back.Node.Destination)
	})
}

func TestSpecJSONShape(t *testing.T) {
	dest := "/net/c1.in"
	spec := &Spec{
		Class:       "Add",
		Sources:     []Arg{{Ref: "/net/c1.out"}, {Ref: "/net/c2.out"}},
		Destination: &dest,
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"Add","sources":["/net/c1.out","/net/c2.out"],"destination":"/net/c1.in"}`, string(data))

	// A pure-source op serializes an explicit null destination.
	spec.Destination = nil
	data, err = json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"Add","sources":["/net/c1.out","/net/c2.out"],"destination":null}`, string(data))
}

func TestDump(t *testing.T) {
	out1 := component.NewCompartment("/net/c1.out", cty.NumberIntVal(1))
	out2 := component.NewCompartment("/net/c2.out", cty.NumberIntVal(2))

	inner := &passthrough{Base: NewBase("Overwrite", out2)}
	outer := &passthrough{Base: NewBase("Add", out1, inner)}
	outer.SetDestination("/net/c1.in")

	spec := outer.Dump()
	assert.Equal(t, "Add", spec.Class)
	require.NotNil(t, spec.Destination)
	assert.Equal(t, "/net/c1.in", *spec.Destination)

	require.Len(t, spec.Sources, 2)
	assert.Equal(t, "/net/c1.out", spec.Sources[0].Ref)
	require.NotNil(t, spec.Sources[1].Node)
	assert.Equal(t, "Overwrite", spec.Sources[1].Node.Class)
	assert.Nil(t, spec.Sources[1].Node.Destination)
	require.Len(t, spec.Sources[1].Node.Sources, 1)
	assert.Equal(t, "/net/c2.out", spec.Sources[1].Node.Sources[0].Ref)
}
