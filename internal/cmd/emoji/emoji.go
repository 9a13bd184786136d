// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents successful completion of an operation.
	// Used for: completed downloads, clean shutdowns, passing checks.
	Success = "✓"

	// Error represents failures or missing required configuration.
	// Used for: failed downloads, unreadable spec files.
	Error = "✗"

	// Stop represents critical stops, shutdowns, or blocking conditions.
	// Used for: graceful shutdowns, stop signals.
	Stop = "✗"

	// Warning represents warnings or non-critical issues.
	// Used for: malformed spec documents that are served anyway.
	Warning = "!"

	// Info represents informational messages.
	// Used for: general information, tips, context.
	Info = "i"
)
