// Package obs builds the client's structured logger.
package obs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/config"
)

const serviceName = "naafe-client"

// NewLogger creates a zerolog.Logger writing human-readable lines to stderr.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stderr, cfg.LogLevel, cfg.Environment)
}

func newLogger(out io.Writer, level, environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("environment", environment).
		Logger().
		Level(parseLevel(level))
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
