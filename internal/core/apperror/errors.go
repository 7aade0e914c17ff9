package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is returned when required ids or fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the requested state change cannot be applied.
	ErrConflict = errors.New("conflict")
	// ErrUpstream is returned when an external engine fails or answers with a non-success status.
	ErrUpstream = errors.New("upstream failure")
)

// UpstreamError describes a failed call to an external engine.
type UpstreamError struct {
	// Service names the upstream (e.g., optimizer, layout).
	Service string
	// StatusCode is the upstream HTTP status, or 500 when none was received.
	StatusCode int
	// Message is the upstream body or transport error text.
	Message string
}

// Error implements error.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrUpstream.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// NewUpstream builds an UpstreamError, defaulting the status code to 500.
func NewUpstream(service string, statusCode int, message string) *UpstreamError {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &UpstreamError{Service: service, StatusCode: statusCode, Message: message}
}

// Validation wraps ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a formatted message.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error to the status code returned to callers.
func HTTPStatus(err error) int {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &upstream):
		return upstream.StatusCode
	default:
		return http.StatusInternalServerError
	}
}
