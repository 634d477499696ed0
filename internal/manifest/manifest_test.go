package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/vk/simgridgo/modules/cell"
)

func writeManifest(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDir(t *testing.T) {
	ctx := context.Background()

	t.Run("merges all manifest files", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "cell.hcl", `
module "simgridgo.modules.cell" {
  attribute "Cell" {
    keywords = ["cell", "graded_cell"]
  }
}
`)
		writeManifest(t, dir, "simop.hcl", `
module "simgridgo.modules.simop" {
  attribute "Add" {}
}
`)
		modules, err := LoadDir(ctx, dir)
		require.NoError(t, err)
		require.Len(t, modules, 2)
	})

	t.Run("empty directory yields no declarations", func(t *testing.T) {
		modules, err := LoadDir(ctx, t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, modules)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "bad.hcl", `module "x" {`)
		_, err := LoadDir(ctx, dir)
		assert.ErrorContains(t, err, "failed to parse manifest file")
	})
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	newRegistry := func() *registry.Registry {
		r := registry.New()
		(&cell.Module{}).Register(r)
		return r
	}

	t.Run("installs keyword aliases", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "cell.hcl", `
module "simgridgo.modules.cell" {
  attribute "Cell" {
    keywords = ["graded_cell"]
  }
}
`)
		modules, err := LoadDir(ctx, dir)
		require.NoError(t, err)

		r := newRegistry()
		require.NoError(t, Apply(ctx, r, modules))

		attr, err := r.ResolveAttribute("graded_cell", "", registry.ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Cell", attr.Name)
	})

	t.Run("unregistered module fails parity", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "ghost.hcl", `
module "simgridgo.modules.ghost" {
  attribute "Ghost" {}
}
`)
		modules, err := LoadDir(ctx, dir)
		require.NoError(t, err)

		err = Apply(ctx, newRegistry(), modules)
		require.ErrorContains(t, err, "manifest validation failed")
		assert.ErrorContains(t, err, `module "simgridgo.modules.ghost"`)
	})

	t.Run("unregistered class fails parity and violations accumulate", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "mixed.hcl", `
module "simgridgo.modules.cell" {
  attribute "Cell" {}
  attribute "SuperCell" {}
}

module "simgridgo.modules.ghost" {
  attribute "Ghost" {}
}
`)
		modules, err := LoadDir(ctx, dir)
		require.NoError(t, err)

		err = Apply(ctx, newRegistry(), modules)
		require.Error(t, err)
		assert.ErrorContains(t, err, `class "SuperCell"`)
		assert.ErrorContains(t, err, `module "simgridgo.modules.ghost"`)
	})
}
