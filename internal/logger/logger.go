// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Init() for terminal commands, InitFile() for the TUI which must keep the screen clean.

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Init configures the default slog logger to write to w.
// LOG_LEVEL: debug, info, warn, error (default: defaultLevel)
// LOG_FORMAT: text, json (default: text)
func Init(w io.Writer, defaultLevel slog.Level) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"), defaultLevel)
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// InitFile points the default logger at a file, appending. Close the returned file on exit.
func InitFile(path string, defaultLevel slog.Level) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	Init(f, defaultLevel)
	return f, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string, defaultLevel slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultLevel
	}
}
