package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewHandler returns the JSON stdout handler. Development builds log at debug.
func NewHandler(w io.Writer, env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(env string) slog.Handler {
	handler := NewHandler(os.Stdout, env)
	slog.SetDefault(slog.New(handler))
	return handler
}
