package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Initialize sets the default slog logger with a tint handler.
func Initialize(level string) {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: time.RFC3339,
	})

	slog.SetDefault(slog.New(handler))
}
