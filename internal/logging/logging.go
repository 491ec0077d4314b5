// Package logging configures the process-wide slog logger from the
// --log-level and --log-format settings.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q: expected debug, info, warn or error", name)
	}
}

// New builds a logger writing to w in the given format.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q: expected %q or %q", format, FormatText, FormatJSON)
	}
	return slog.New(handler), nil
}

// Setup installs a new logger as the slog default and returns a function
// restoring the previous default.
func Setup(w io.Writer, level, format string) (func(), error) {
	logger, err := New(w, level, format)
	if err != nil {
		return func() {}, err
	}
	previous := slog.Default()
	slog.SetDefault(logger)
	return func() { slog.SetDefault(previous) }, nil
}
