// Package log provides structured logging for classbench, built on zerolog.
//
// Loggers are component-scoped: each package obtains its own logger via
// NewLogger and attaches run context (variant, samples, seed) through the
// standard attribute keys defined in attributes.go. Output defaults to
// stderr; the level is configurable so benchmark runs can be silenced in
// tests.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns a component-scoped logger writing to w at the given
// level. A nil writer defaults to stderr.
func NewLogger(component string, w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str(ComponentKey, component).
		Logger()
}

// Nop returns a logger that discards everything. Used as the default in
// library code so logging stays opt-in.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info for
// unknown names.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
