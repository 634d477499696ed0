package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vk/simgridgo/internal/ctxlog"
)

// MakeUniquePath creates a uniquely named model directory under directory.
// A free rootName is used as-is; a colliding one gets a generated suffix; an
// empty one becomes the generated id alone.
func MakeUniquePath(ctx context.Context, directory, rootName string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	uid := uuid.NewString()

	switch {
	case rootName == "":
		rootName = uid
		logger.Info("No model name given, generated one.", "name", rootName)
	default:
		if _, err := os.Stat(filepath.Join(directory, rootName)); err == nil {
			rootName = rootName + "_" + uid
			logger.Info("Model name already exists, appending unique suffix.", "name", rootName)
		}
	}

	path := filepath.Join(directory, rootName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("creating model directory %q: %w", path, err)
	}
	return path, nil
}
