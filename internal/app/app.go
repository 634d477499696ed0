// Package app wires the registry, manifests, scope, and persistence into a
// runnable application instance.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/simgridgo/internal/command"
	"github.com/vk/simgridgo/internal/ctxlog"
	"github.com/vk/simgridgo/internal/manifest"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/vk/simgridgo/internal/simctx"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	scope    *simctx.Scope
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry, and
// scope. The compiler collaborator may be nil when no dynamically compiled
// commands are expected. A manifest parity failure is a programmer error
// (mismatch between code and declarations) and panics.
func NewApp(outW io.Writer, cfg *Config, compiler command.Compiler, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go class modules registered.", "count", len(modules))

	if cfg.ManifestPath != "" {
		declared, err := manifest.LoadDir(ctx, cfg.ManifestPath)
		if err != nil {
			panic(fmt.Errorf("failed to load manifests: %w", err))
		}
		if err := manifest.Apply(ctx, reg, declared); err != nil {
			panic(err)
		}
		logger.Debug("Manifests applied.")
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		scope:    simctx.NewScope(reg, compiler),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Scope returns the application's scope. This is primarily for testing.
func (a *App) Scope() *simctx.Scope {
	return a.scope
}
