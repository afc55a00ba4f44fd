package logger

import (
	"io"
	"os"
	"time"

	"github.com/hackpsu/admin-console/internal/config"
	"github.com/rs/zerolog"
)

// Setup initializes the global zerolog logger based on environment configuration.
//   - level: log level string (trace, debug, info, warn, error, fatal, panic)
//   - format: "json" for production, "pretty" for human-readable dev output
func Setup(level, format string) zerolog.Logger {
	return New(os.Stdout, level, format)
}

// New builds a logger writing to w. Every line carries the service name so
// console logs can be told apart from the backend's in a shared sink, and
// durations are written in milliseconds. Tests pass a buffer here.
func New(w io.Writer, level, format string) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Millisecond

	writer := w
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:           w,
			TimeFormat:    time.RFC3339,
			FieldsExclude: []string{"service"},
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(writer).
		With().
		Timestamp().
		Str("service", config.ServiceName)
	if lvl <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}
