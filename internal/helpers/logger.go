package helpers

import (
	"io"
	"log/slog"
	"os"
)

// NewNoopLogger returns a logger discarding every record.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewLogger returns the JSON stdout logger. Each verbosity step lowers the level from Warn by one slog level.
func NewLogger(verbosity int, callerTrace bool) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: callerTrace,
		Level:     slog.LevelWarn - slog.Level(verbosity*4),
	}))
}
