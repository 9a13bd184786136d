// Package response writes the JSON envelope used by the dev server's own
// endpoints. Bundle assets and spec documents are served raw by the mount;
// only service endpoints such as health checks and middleware rejections
// go through here.
package response

import (
	"encoding/json"
	"net/http"
)

// Body is the envelope for service endpoint responses. Exactly one of Data
// and Error is set.
type Body struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error carries a stable machine-readable code alongside the human text.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// OK writes data inside the success envelope with a 200 status.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Body{Data: data})
}

// MethodNotAllowed rejects the request method with a 405.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	write(w, http.StatusMethodNotAllowed, Body{Error: &Error{
		Code:    "METHOD_NOT_ALLOWED",
		Message: "Method " + method + " is not supported for this endpoint",
	}})
}

// RateLimited rejects the request with a 429.
func RateLimited(w http.ResponseWriter, details string) {
	write(w, http.StatusTooManyRequests, Body{Error: &Error{
		Code:    "RATE_LIMITED",
		Message: "Rate limit exceeded",
		Details: details,
	}})
}

// InternalError reports a 500 without exposing the cause.
func InternalError(w http.ResponseWriter) {
	write(w, http.StatusInternalServerError, Body{Error: &Error{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	}})
}

func write(w http.ResponseWriter, status int, body Body) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so encoding failures have nowhere to go.
	_ = json.NewEncoder(w).Encode(body)
}
