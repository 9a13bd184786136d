// Package constants provides shared constants used throughout the skyview codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests (release downloads)
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultReadTimeout is the default read timeout for the dev server
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the default write timeout for the dev server
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the default idle timeout for keep-alive connections
	DefaultIdleTimeout = 60 * time.Second

	// ShutdownTimeout is how long the dev server waits to drain connections
	ShutdownTimeout = 30 * time.Second

	// WatchDebounce coalesces bursts of filesystem events into one reload
	WatchDebounce = 200 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Server defaults
const (
	// DefaultHost is the interface the dev server binds to
	DefaultHost = "localhost"

	// DefaultPort is the port the dev server listens on
	DefaultPort = 8080

	// DefaultRateLimit is the per-client request rate for the dev server (req/s)
	DefaultRateLimit = 50

	// DefaultRateBurst is the token bucket burst size for rate limiting
	DefaultRateBurst = 100

	// ChannelBufferSize is the default buffer size for broadcast channels
	ChannelBufferSize = 256
)

// Cache constants
const (
	// AssetCacheMaxAge is the max-age, in seconds, advertised for immutable
	// bundle assets. Config and spec documents are served no-cache.
	AssetCacheMaxAge = 3600
)

// Upstream release constants
const (
	// ReleaseArchiveURL is the template for upstream Swagger UI release archives.
	// The single %s is the bare version (no v prefix).
	ReleaseArchiveURL = "https://github.com/swagger-api/swagger-ui/archive/refs/tags/v%s.zip"

	// MaxArchiveSize caps how much of a release archive the fetcher will read (64 MB)
	MaxArchiveSize = 64 * 1024 * 1024
)
