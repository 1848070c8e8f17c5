package api

import "fmt"

// ErrorType represents the category of an error crossing a package
// boundary.
type ErrorType string

const (
	ErrorTypeServerError    ErrorType = "server_error"
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConnection     ErrorType = "connection_error"
	ErrorTypeUnsupported    ErrorType = "unsupported"
)

// Error is a structured error with a type, an optional parameter name,
// and a human-readable message.
type Error struct {
	Type    ErrorType `json:"type"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewInvalidRequestError creates an Error for invalid input, naming the
// offending parameter.
func NewInvalidRequestError(param, message string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an Error for resources that cannot be found.
func NewNotFoundError(message string) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an Error for inference server failures.
func NewServerError(message string) *Error {
	return &Error{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewConnectionError creates an Error for network-level failures.
func NewConnectionError(message string) *Error {
	return &Error{
		Type:    ErrorTypeConnection,
		Message: message,
	}
}

// NewUnsupportedError creates an Error for operations the core refuses
// to attempt, such as streaming with tools configured.
func NewUnsupportedError(message string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupported,
		Message: message,
	}
}
