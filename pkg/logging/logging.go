// Package logging configures zerolog for skyview commands and the dev
// server. Humans on a terminal get console output, everything else gets
// JSON; the choice is automatic unless pinned through Config.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("path", "/swagger-ui").Msg("Mounted UI")
//
//	log.Error().
//	    Err(err).
//	    Str("spec", "openapi.yaml").
//	    Msg("Failed to load spec file")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the process-wide logger handed out by Default.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = build(DefaultConfig())
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger. zerolog's own global is
// kept in step for code that logs through it directly.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}
