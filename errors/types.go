package errors

// NewError creates a new Error with the given parameters.
// It is a general-purpose constructor that allows full control over
// the error's fields. For most cases, you should use one of the
// specialized constructors below.
//
// Example:
//
//	err := NewError(GeneralError, "client is closed", 0, nil)
func NewError(errType ErrorType, message string, statusCode int, err error) *Error {
	return &Error{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		err:        err,
	}
}

// NewValidationError creates a validation error. Use this for failures
// detected locally before a request is sent, such as:
//   - An empty prompt
//   - Missing credential tokens
//   - Invalid configuration values
//
// Example:
//
//	err := NewValidationError("prompt must not be empty", map[string]interface{}{
//	    "field": "prompt",
//	})
func NewValidationError(message string, details map[string]interface{}) *Error {
	return &Error{
		Type:    ValidationError,
		Message: message,
		Details: details,
	}
}

// NewConnectionError creates a connection error. Use this when no HTTP
// response was obtained:
//   - DNS resolution failures
//   - Refused or reset connections
//   - Timeouts and cancelled contexts
//
// Example:
//
//	err := NewConnectionError("req_123", "failed to connect to https://www.pizzagpt.it", netErr)
func NewConnectionError(requestID, message string, err error) *Error {
	return &Error{
		Type:      ConnectionError,
		Message:   message,
		RequestID: requestID,
		err:       err,
	}
}

// NewResponseError creates a response error for a non-success status code.
// The raw body is kept for diagnostics.
//
// Example:
//
//	err := NewResponseError("req_123", 500, "Internal Server Error", body)
func NewResponseError(requestID string, statusCode int, message, body string) *Error {
	return &Error{
		Type:       ResponseError,
		Message:    message,
		StatusCode: statusCode,
		Body:       body,
		RequestID:  requestID,
	}
}

// NewMalformedResponseError creates a response error for a success status
// whose payload could not be used: invalid JSON, a missing answer field, or
// a body exceeding the configured limit.
//
// Example:
//
//	err := NewMalformedResponseError("req_123", 200, body, decodeErr)
func NewMalformedResponseError(requestID string, statusCode int, body string, err error) *Error {
	return &Error{
		Type:       ResponseError,
		Message:    "malformed response payload",
		StatusCode: statusCode,
		Body:       body,
		Malformed:  true,
		RequestID:  requestID,
		err:        err,
	}
}
