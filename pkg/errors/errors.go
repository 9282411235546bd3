package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping and log filtering.
type Code string

const (
	CodeValidation    Code = "validation"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeStateConflict Code = "state_conflict"
	CodeDependency    Code = "dependency"
	CodeInternal      Code = "internal"
)

// Error is the coded error carried across service boundaries. Metadata holds
// structured details safe to return to API clients.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]any
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithMeta attaches a metadata key and returns the same error for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}
	e.Metadata[key] = value
	return e
}

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message, preserving the cause chain.
func Wrap(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// As extracts a coded error from anywhere in err's chain. Errors without a
// code come back wrapped as internal so callers always get one.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return &Error{Code: CodeInternal, Message: err.Error(), cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var coded *Error
	return errors.As(err, &coded) && coded.Code == code
}

// HTTPStatus maps a code to the response status used by the API layer.
func HTTPStatus(err error) int {
	switch As(err).Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeStateConflict:
		return http.StatusConflict
	case CodeDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
