// Package errors provides the error taxonomy of the pizzagpt client.
//
// Every failure surfaced by the library is an *Error. Its Type tells the
// caller what went wrong:
//
//   - GeneralError is the umbrella kind. Every *Error matches it.
//   - ValidationError is a local failure detected before any network activity,
//     such as an empty prompt or incomplete credentials.
//   - ConnectionError means no HTTP response was obtained: DNS failure,
//     refused or reset connection, timeout, cancelled context.
//   - ResponseError means a response arrived but was unusable: a non-2xx
//     status, or a 2xx whose body could not be parsed or lacked the answer.
//
// Errors match by type with the standard library:
//
//	if errors.Is(err, pizzaerrors.ErrConnection) {
//	    // the service could not be reached
//	}
//
// Integrated logging goes through Uber's zap logger.
package errors

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the default zap logger instance used throughout the module.
// It is initialized to a production configuration but can be overridden using SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger allows setting a custom zap logger instance.
// If nil is provided, the function will do nothing to prevent
// accidentally disabling logging.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType represents the category of a failure.
type ErrorType string

const (
	// GeneralError is the common ancestor of every error kind
	GeneralError ErrorType = "general_error"

	// ValidationError represents local input validation failures
	ValidationError ErrorType = "validation_error"

	// ConnectionError represents failures before any HTTP response was received
	ConnectionError ErrorType = "connection_error"

	// ResponseError represents responses that were received but are unusable
	ResponseError ErrorType = "response_error"
)

// Sentinels for errors.Is matching. Only the Type field is compared.
var (
	ErrGeneral    = &Error{Type: GeneralError}
	ErrValidation = &Error{Type: ValidationError}
	ErrConnection = &Error{Type: ConnectionError}
	ErrResponse   = &Error{Type: ResponseError}
)

// Error is the single error type returned by the client and the service.
// It is serializable to JSON so the CLI can print machine-readable failures.
type Error struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// StatusCode is the HTTP status of the response. Zero unless Type is ResponseError.
	StatusCode int `json:"status_code,omitempty"`

	// Body is the raw response body, when one was received
	Body string `json:"-"`

	// Malformed marks a success status whose payload could not be used
	Malformed bool `json:"malformed,omitempty"`

	// RequestID links the error to the outbound X-Request-ID header
	RequestID string `json:"request_id,omitempty"`

	// Details contains additional error context
	Details map[string]interface{} `json:"details,omitempty"`

	// err is the underlying error (not exposed in JSON)
	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error, implementing the unwrap
// interface for error chains.
func (e *Error) Unwrap() error {
	return e.err
}

// Is implements type-based matching for errors.Is. Every *Error matches
// ErrGeneral; otherwise the types must be equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == GeneralError || e.Type == t.Type
}

// StatusText returns the canonical text for the carried status code, or an
// empty string for errors without one.
func (e *Error) StatusText() string {
	if e.StatusCode == 0 {
		return ""
	}
	return http.StatusText(e.StatusCode)
}
