package fontdl

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EHTTP     = "http"     // provider answered with a non-2xx status
	EDECODE   = "decode"   // body is not valid JSON after JSONP unwrapping
	EPROVIDER = "provider" // decoded payload carries an "error" key
	EPROTOCOL = "protocol" // payload is well-formed but inconsistent
	EIO       = "io"       // local filesystem failure
	EINVALID  = "invalid"
	ELIMIT    = "limit" // a configured page or time bound was reached
	EINTERNAL = "internal"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string

	// Request URL the error relates to, if any.
	URL string

	// Underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.URL != "" {
		return fmt.Sprintf("fontdl error: code=%s message=%s url=%s", e.Code, msg, e.URL)
	}
	return fmt.Sprintf("fontdl error: code=%s message=%s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorURL unwraps an application error and returns the request URL it
// carries, or an empty string.
func ErrorURL(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.URL
	}
	return ""
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code that wraps err.
func WrapError(code string, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithURL sets the request URL on the error and returns it.
func (e *Error) WithURL(url string) *Error {
	e.URL = url
	return e
}
