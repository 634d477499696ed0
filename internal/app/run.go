package app

import (
	"context"
	"fmt"

	"github.com/vk/simgridgo/internal/ctxlog"
	"github.com/vk/simgridgo/internal/persist"
	"github.com/vk/simgridgo/internal/simctx"
)

// Run reconstructs the configured model into a fresh context and, when an
// output directory is configured, round-trips it back to disk.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	c, err := simctx.GetOrCreate(a.scope, a.config.ContextName)
	if err != nil {
		return err
	}

	if err := persist.Load(ctx, a.scope, c, a.config.ModelPath, a.config.CustomFolder); err != nil {
		return fmt.Errorf("loading model from %q: %w", a.config.ModelPath, err)
	}
	a.logger.Info("Model reconstructed.",
		"context", c.Path(),
		"components", len(c.ComponentNames()),
		"ops", len(c.Spec().Ops),
		"commands", len(c.Spec().Commands),
	)

	if a.config.OutDir == "" {
		return nil
	}

	modelPath, customPath, err := persist.Save(ctx, c, a.config.OutDir, c.Name(), true)
	if err != nil {
		return fmt.Errorf("re-saving model: %w", err)
	}
	a.logger.Info("Model saved.", "path", modelPath, "custom", customPath)
	fmt.Fprintln(a.outW, modelPath)
	return nil
}
