// Package errors provides custom error types for the skyview system.
// These errors enable programmatic error checking at mount construction
// time and keep per-request failures as plain values rather than panics.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the skyview system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrBundleInvalid indicates the embedded UI bundle is missing or corrupt
	ErrBundleInvalid = errors.New("bundle invalid")

	// ErrDuplicateSpec indicates two spec entries were registered under one name
	ErrDuplicateSpec = errors.New("duplicate spec")

	// ErrInvalidSpec indicates a spec entry that cannot be served
	ErrInvalidSpec = errors.New("invalid spec")

	// ErrInvalidOption indicates a mount option that cannot be applied
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidPath indicates a request path that tried to escape the bundle
	ErrInvalidPath = errors.New("invalid path")

	// ErrFetchFailed indicates an upstream release download failed
	ErrFetchFailed = errors.New("fetch failed")
)

// BundleError represents a failure while building the asset table from the
// packaged bundle. Construction must fail fast on it; a partially built
// table is never served.
type BundleError struct {
	Op   string // "open", "walk", "read", "build"
	Path string
	Err  error
}

// Error implements the error interface
func (e *BundleError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("bundle %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("bundle %s: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BundleError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *BundleError) Is(target error) bool {
	return target == ErrBundleInvalid
}

// NewBundleError creates a new BundleError
func NewBundleError(op, path string, err error) *BundleError {
	return &BundleError{Op: op, Path: path, Err: err}
}

// SpecError represents an invalid or conflicting spec entry registration
type SpecError struct {
	Name    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SpecError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("spec %q: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("spec: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *SpecError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SpecError) Is(target error) bool {
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return target == ErrInvalidSpec
}

// NewSpecError creates a new SpecError
func NewSpecError(name, message string, err error) *SpecError {
	return &SpecError{Name: name, Message: message, Err: err}
}

// OptionError represents a mount option that could not be applied
type OptionError struct {
	Option  string
	Message string
}

// Error implements the error interface
func (e *OptionError) Error() string {
	return fmt.Sprintf("option %s: %s", e.Option, e.Message)
}

// Is implements errors.Is support
func (e *OptionError) Is(target error) bool {
	return target == ErrInvalidOption
}

// NewOptionError creates a new OptionError
func NewOptionError(option, message string) *OptionError {
	return &OptionError{Option: option, Message: message}
}

// SpecFileError represents a spec document that could not be loaded from disk
type SpecFileError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *SpecFileError) Error() string {
	return fmt.Sprintf("spec file %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SpecFileError) Unwrap() error {
	return e.Err
}

// NewSpecFileError creates a new SpecFileError
func NewSpecFileError(path string, err error) *SpecFileError {
	return &SpecFileError{Path: path, Err: err}
}

// FetchError represents a failed upstream release download
type FetchError struct {
	URL    string
	Status int
	Err    error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, status int, err error) *FetchError {
	return &FetchError{URL: url, Status: status, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBundleInvalid checks if an error came from building the asset table
func IsBundleInvalid(err error) bool {
	return errors.Is(err, ErrBundleInvalid)
}

// IsDuplicateSpec checks if an error is a duplicate spec registration
func IsDuplicateSpec(err error) bool {
	return errors.Is(err, ErrDuplicateSpec)
}

// IsInvalidSpec checks if an error is a rejected spec entry
func IsInvalidSpec(err error) bool {
	return errors.Is(err, ErrInvalidSpec)
}

// IsInvalidOption checks if an error is a rejected mount option
func IsInvalidOption(err error) bool {
	return errors.Is(err, ErrInvalidOption)
}

// IsFetchFailed checks if an error came from an upstream release download
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// Helper wrapping functions for common patterns

// WrapBundle wraps an error as a BundleError
func WrapBundle(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewBundleError(op, path, err)
}

// WrapSpecFile wraps an error as a SpecFileError
func WrapSpecFile(path string, err error) error {
	if err == nil {
		return nil
	}
	return NewSpecFileError(path, err)
}

// WrapFetch wraps an error as a FetchError
func WrapFetch(url string, err error) error {
	if err == nil {
		return nil
	}
	return NewFetchError(url, 0, err)
}
