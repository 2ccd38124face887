package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when input is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated is returned when the caller identity cannot be established.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound is returned when a record or its file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record changed underneath a write.
	ErrConflict = errors.New("conflict")
	// ErrConfiguration is returned when a required setting is absent.
	ErrConfiguration = errors.New("configuration error")
)

// Error is a domain error of a given kind carrying a client-safe message.
// Cause is for logs only and never reaches a response.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the kind and the cause so errors.Is works against both.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Validation creates a validation error with the given message.
func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// NotFound creates a not-found error with the given message.
func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Conflict creates a conflict error with the given message.
func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Unauthenticated creates an authentication error with the given message.
func Unauthenticated(message string) error {
	return &Error{Kind: ErrUnauthenticated, Message: message}
}

// Configuration creates a configuration error caused by err.
func Configuration(message string, err error) error {
	return &Error{Kind: ErrConfiguration, Message: message, Cause: err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse is the error body used by authentication endpoints.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Unknown errors become a generic 500 so internals never leak to clients.
func MapErrorToHTTP(err error) *HTTPError {
	message := "internal server error"
	var domainErr *Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, message, "VALIDATION_ERROR")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, message, "UNAUTHENTICATED")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, message, "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, message, "CONFLICT")
	case errors.Is(err, ErrConfiguration):
		if domainErr == nil {
			message = "server is not configured"
		}
		return NewHTTPError(http.StatusInternalServerError, message, "CONFIGURATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
