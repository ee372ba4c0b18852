package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is the minimum severity a handler emits.
type Level = slog.Level

// Log levels accepted by ParseLevel and Config.Level.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects how a *slog.Logger built by New renders records.
type Format string

// Output formats accepted by ParseFormat and Config.Format.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures the logger pkg/cli/serve.go builds for the
// Control API, and hands to pkg/controlapi and pkg/mockserver via
// their WithLogger options.
type Config struct {
	// Level is the minimum log level to output.
	Level Level

	// Format is the output format (text or json).
	Format Format

	// Output is the writer to send logs to. Defaults to os.Stderr.
	Output io.Writer

	// AddSource adds source file and line to log entries.
	AddSource bool
}

// New creates a *slog.Logger per cfg. A nil Output defaults to
// os.Stderr; an unrecognized Format falls back to FormatText.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// Nop returns a logger that discards everything written to it. Used
// by mockserver.New and controlapi.New as the default logger when a
// caller doesn't supply WithLogger.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var levelsByName = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// ParseLevel parses a log level string case-insensitively. An empty
// or unrecognized value returns LevelInfo. serve.go's --log-level
// flag feeds this directly.
func ParseLevel(s string) Level {
	if level, ok := levelsByName[strings.ToLower(s)]; ok {
		return level
	}
	return LevelInfo
}

// ParseFormat parses a log format string case-insensitively. An empty
// or unrecognized value returns FormatText. serve.go's --log-format
// flag feeds this directly.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}
