package migrations

import (
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

type gooseLogger struct {
	log zerolog.Logger
}

// Logger adapts log to goose's logger so migration output goes through
// zerolog instead of stdout.
func Logger(log zerolog.Logger) goose.Logger {
	return gooseLogger{log: log.With().Str("component", "migrations").Logger()}
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(strings.TrimSpace(format), v...)
}
