package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgridgo/internal/component"
)

func nopFactory(ctx context.Context, cfg component.Config) (component.Component, error) {
	return nil, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	r.RegisterComponentClass("simgridgo.modules.cell", "Cell", nopFactory)
	r.RegisterComponentClass("simgridgo.modules.dense", "Dense", nopFactory)
	return r
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	r := newTestRegistry(t)
	assert.Panics(t, func() {
		r.RegisterComponentClass("simgridgo.modules.cell", "Cell", nopFactory)
	})
}

func TestResolveModule(t *testing.T) {
	t.Run("matches final segment case-insensitively", func(t *testing.T) {
		r := newTestRegistry(t)
		canonical, err := r.ResolveModule("CELL", ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, "simgridgo.modules.cell", canonical)
	})

	t.Run("match case rejects different case", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.ResolveModule("CELL", ResolveOptions{MatchCase: true})
		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "CELL", resErr.Path)
	})

	t.Run("absolute path is an exact lookup", func(t *testing.T) {
		r := newTestRegistry(t)
		canonical, err := r.ResolveModule("simgridgo.modules.cell", ResolveOptions{AbsolutePath: true})
		require.NoError(t, err)
		assert.Equal(t, "simgridgo.modules.cell", canonical)

		_, err = r.ResolveModule("simgridgo.modules.nope", ResolveOptions{AbsolutePath: true})
		assert.Error(t, err)
	})

	t.Run("unknown module carries the attempted path", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.ResolveModule("no.such.module", ResolveOptions{})
		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "no.such.module", resErr.Path)
		assert.ErrorContains(t, err, "no.such.module")
	})

	t.Run("results are memoized by the requested string", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.ResolveModule("cell", ResolveOptions{})
		require.NoError(t, err)
		assert.Contains(t, r.moduleCache, "cell")
	})
}

func TestResolveAttribute(t *testing.T) {
	t.Run("bare class name resolves from the preloaded cache", func(t *testing.T) {
		r := newTestRegistry(t)
		attr, err := r.ResolveAttribute("Cell", "", ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Cell", attr.Name)
		assert.Equal(t, "simgridgo.modules.cell", attr.Module)
	})

	t.Run("lowercase name is capitalized before lookup", func(t *testing.T) {
		r := newTestRegistry(t)
		attr, err := r.ResolveAttribute("cell", "", ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Cell", attr.Name)
	})

	t.Run("unknown attribute is a resolution error", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.ResolveAttribute("spike", "cell", ResolveOptions{})
		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
	})

	t.Run("second lookup hits the cache", func(t *testing.T) {
		r := newTestRegistry(t)
		first, err := r.ResolveAttribute("cell", "", ResolveOptions{})
		require.NoError(t, err)
		second, err := r.ResolveAttribute("cell", "", ResolveOptions{})
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}

func TestResolveFromPath(t *testing.T) {
	t.Run("absolute form splits module and class", func(t *testing.T) {
		r := newTestRegistry(t)
		attr, err := r.ResolveFromPath("simgridgo.modules.dense.Dense", ResolveOptions{AbsolutePath: true})
		require.NoError(t, err)
		assert.Equal(t, "Dense", attr.Name)
	})

	t.Run("malformed absolute path errors", func(t *testing.T) {
		r := newTestRegistry(t)
		_, err := r.ResolveFromPath("Dense", ResolveOptions{AbsolutePath: true})
		assert.Error(t, err)
	})

	t.Run("plain form uses one string for module and class", func(t *testing.T) {
		r := newTestRegistry(t)
		attr, err := r.ResolveFromPath("dense", ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Dense", attr.Name)
	})
}

func TestRegisterAlias(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.RegisterAlias("graded_cell", "simgridgo.modules.cell", "Cell"))
	attr, err := r.ResolveAttribute("graded_cell", "", ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Cell", attr.Name)

	assert.Error(t, r.RegisterAlias("x", "no.such.module", "Cell"))
	assert.Error(t, r.RegisterAlias("x", "simgridgo.modules.cell", "Nope"))
	// Rebinding an alias to a different class is rejected.
	assert.Error(t, r.RegisterAlias("graded_cell", "simgridgo.modules.dense", "Dense"))
}
