package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the process logger. Production emits JSON for log
// shipping; development keeps the text handler with source locations.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	switch {
	case cfg != nil && cfg.LogFormat == "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case cfg.IsProduction():
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: slog.LevelDebug})
	}
	return slog.New(handler).With(slog.String("service", "abschluss"))
}
