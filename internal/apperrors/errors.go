// Package apperrors defines the error kinds surfaced by the services and how
// callers recognise them.
package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidation      Code = "VALIDATION_FAILED"
	CodeConfiguration   Code = "CONFIGURATION_ERROR"
	CodeUnauthenticated Code = "AUTHENTICATION_FAILED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeConflict        Code = "CONFLICT"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeInternal        Code = "INTERNAL"
)

type Error struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrInvalidCredentials is the only error a failed login ever reports.
var ErrInvalidCredentials = &Error{Code: CodeUnauthenticated, Message: "invalid username or password"}

func NotFound(resource string, key interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %v not found", resource, key)}
}

func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

func Configuration(message string) *Error {
	return &Error{Code: CodeConfiguration, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Code: CodeRateLimited, Message: message}
}

// Internal wraps an infrastructure failure (storage, session store) that is
// not the caller's fault.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf reports the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }
