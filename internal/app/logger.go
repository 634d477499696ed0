package app

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the application's isolated slog.Logger. It never touches
// the process-global default, so embedding hosts keep their own logging.
// Unrecognized level or format strings fall back to info/text; validation of
// user input happens at the CLI boundary.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(levelStr))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
