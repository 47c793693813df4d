package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Initialize sets up the global logger writing to stderr, leaving stdout
// to the canonical selector output of the CLI
func Initialize(isDevelopment bool) {
	InitializeWithWriter(isDevelopment, os.Stderr)
}

// InitializeWithWriter sets up the global logger on the given writer
func InitializeWithWriter(isDevelopment bool, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	// InvalidWeekDay errors carry a pkg/errors stack, emitted by events that call Stack()
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	output := w
	if isDevelopment {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if isDevelopment {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// GetLogger returns a logger with the component field set
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// SetLogLevel sets the global log level, falling back to info for unknown names
func SetLogLevel(level string) zerolog.Level {
	lvl, err := ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

// ParseLevel accepts the zerolog level names, case-insensitively
func ParseLevel(level string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
}
