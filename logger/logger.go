package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init initializes a zerolog logger writing to stdout.
// If pretty is true, uses ConsoleWriter for human-readable output.
// Log level can be configured via LOG_LEVEL environment variable
// (trace, debug, info, warn, error).
func Init(pretty bool) zerolog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))

	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "trace":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
