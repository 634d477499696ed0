package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/simgridgo/internal/registry"
)

func TestNewConfig(t *testing.T) {
	t.Run("model path is required", func(t *testing.T) {
		_, err := NewConfig(Config{})
		assert.ErrorContains(t, err, "model path is required")
	})

	t.Run("defaults are applied", func(t *testing.T) {
		cfg, err := NewConfig(Config{ModelPath: "/tmp/m"})
		require.NoError(t, err)
		assert.Equal(t, "model", cfg.ContextName)
		assert.Equal(t, "custom", cfg.CustomFolder)
	})
}

func TestNewApp(t *testing.T) {
	t.Run("registers the core modules", func(t *testing.T) {
		cfg, err := NewConfig(Config{ModelPath: "/tmp/m"})
		require.NoError(t, err)
		var out bytes.Buffer
		a := NewApp(&out, cfg, nil)

		for _, path := range []string{
			"simgridgo.modules.cell",
			"simgridgo.modules.clamp",
			"simgridgo.modules.simop",
		} {
			assert.True(t, a.Registry().HasModule(path), path)
		}
	})

	t.Run("manifest parity failure panics", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ghost.hcl"), []byte(`
module "simgridgo.modules.ghost" {
  attribute "Ghost" {}
}
`), 0o644))
		cfg, err := NewConfig(Config{ModelPath: "/tmp/m", ManifestPath: dir})
		require.NoError(t, err)

		var out bytes.Buffer
		assert.PanicsWithError(t, `manifest validation failed:
- manifest declares module "simgridgo.modules.ghost", but no Go module registered it`, func() {
			NewApp(&out, cfg, nil)
		})
	})

	t.Run("manifest aliases reach the resolver", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cell.hcl"), []byte(`
module "simgridgo.modules.cell" {
  attribute "Cell" {
    keywords = ["graded_cell"]
  }
}
`), 0o644))
		cfg, err := NewConfig(Config{ModelPath: "/tmp/m", ManifestPath: dir})
		require.NoError(t, err)

		var out bytes.Buffer
		a := NewApp(&out, cfg, nil)
		attr, err := a.Registry().ResolveAttribute("graded_cell", "", registry.ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Cell", attr.Name)
	})
}

func TestRunMissingModel(t *testing.T) {
	cfg, err := NewConfig(Config{ModelPath: filepath.Join(t.TempDir(), "nope"), LogLevel: "error"})
	require.NoError(t, err)
	var out bytes.Buffer
	a := NewApp(&out, cfg, nil)
	err = a.Run(context.Background())
	assert.ErrorContains(t, err, "loading model")
}
