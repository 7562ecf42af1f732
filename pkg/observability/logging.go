package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "text"
}

// InitLogger initializes a structured slog.Logger and installs it as the default.
func InitLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
