// Package obs provides logging and metrics setup shared by the catcount binaries.
package obs

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger
func InitLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Parse log level
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Pretty print in development
	if os.Getenv("ENV") == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// Logger returns a new logger with the given component name
func Logger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// FailureLog records swallowed failures on a zerolog logger
type FailureLog struct {
	logger zerolog.Logger
}

// NewFailureLog creates a FailureLog writing to logger
func NewFailureLog(logger zerolog.Logger) *FailureLog {
	return &FailureLog{logger: logger}
}

// RecordFailure logs err at error level
func (f *FailureLog) RecordFailure(msg string, err error) {
	f.logger.Error().Err(err).Msg(msg)
}
