package errors

import (
	"errors"
)

// As is a wrapper around errors.As for better error type assertion
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConnection reports whether err means the service could not be reached.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsResponse reports whether err means the service answered with something unusable.
func IsResponse(err error) bool {
	return errors.Is(err, ErrResponse)
}

// IsMalformed reports whether err is a success status with an unusable payload.
func IsMalformed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Malformed
}

// StatusCode extracts the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
