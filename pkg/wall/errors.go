package wall

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// CodeInvalidValue: negative coordinate, non-positive dimension or scale,
	// bad price.
	CodeInvalidValue Code = "INVALID_VALUE"
	// CodeInvalidConfiguration: an unrecognized side or pricing unit reached
	// a dispatch point.
	CodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	// CodeInvalidOperation: rescaling, mixing axes, malformed walls.
	CodeInvalidOperation Code = "INVALID_OPERATION"
	// CodeNotFound: a named layer is not part of the wall.
	CodeNotFound Code = "NOT_FOUND"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
