package app

import "fmt"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ModelPath is the saved model directory to reconstruct.
	ModelPath string
	// ManifestPath is the directory of module manifest files to apply before
	// loading. Empty means no manifests.
	ManifestPath string
	// ContextName names the context the model is loaded into.
	ContextName string
	// OutDir, when non-empty, re-saves the reconstructed model under this
	// directory (a round trip).
	OutDir string
	// CustomFolder is the name of the custom data folder inside the model
	// directory.
	CustomFolder string
	LogFormat    string
	LogLevel     string
}

// NewConfig validates and normalizes a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("a model path is required")
	}
	if cfg.ContextName == "" {
		cfg.ContextName = "model"
	}
	if cfg.CustomFolder == "" {
		cfg.CustomFolder = "custom"
	}
	return &cfg, nil
}
