package server

import (
	"fmt"
	"time"

	"github.com/agentstation/skyview/pkg/constants"
)

// Config holds dev server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// Mount settings
	BasePath         string
	SpecFiles        []string
	SpecURLs         []string
	Title            string
	UIOptions        map[string]any
	RedirectFallback bool

	// Watch settings
	Watch bool

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Performance settings
	RateLimit float64 // Requests per second per IP (0 to disable)
	RateBurst int

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Features
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           constants.DefaultHost,
		Port:           constants.DefaultPort,
		BasePath:       "/docs",
		CORSEnabled:    true,
		CORSOrigins:    []string{},
		RateLimit:      constants.DefaultRateLimit,
		RateBurst:      constants.DefaultRateBurst,
		ReadTimeout:    constants.DefaultReadTimeout,
		WriteTimeout:   constants.DefaultWriteTimeout,
		IdleTimeout:    constants.DefaultIdleTimeout,
		MetricsEnabled: true,
	}
}

// Addr returns the host:port the server binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
