package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "blog-platform-api"

// New creates a logger from LOG_LEVEL and LOG_FORMAT. It is used before
// configuration has been loaded.
func New() zerolog.Logger {
	format := os.Getenv("LOG_FORMAT")
	if os.Getenv("ENV") == "development" {
		format = "pretty"
	}
	return NewWithConfig(os.Getenv("LOG_LEVEL"), format)
}

// NewWithConfig creates a zerolog logger with structured output
func NewWithConfig(level, format string) zerolog.Logger {
	return build(os.Stdout, level, format)
}

func build(out io.Writer, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	// Use pretty console output in development
	if format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(ParseLevel(level)).
			With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}

	// JSON output for production
	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
