// Package apperr carries the service-layer failure taxonomy: every failure
// is a typed error with an HTTP status, serialized by a single top-level
// handler instead of ad hoc shaping in endpoints.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
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

func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

func NotFound(msg string) *Error   { return New(http.StatusNotFound, msg) }
func Forbidden(msg string) *Error  { return New(http.StatusForbidden, msg) }
func Conflict(msg string) *Error   { return New(http.StatusConflict, msg) }
func BadRequest(msg string) *Error { return New(http.StatusBadRequest, msg) }

func BadRequestf(format string, args ...any) *Error {
	return BadRequest(fmt.Sprintf(format, args...))
}

// Internal wraps an unexpected failure. The wrapped error is kept for the
// server log; only msg reaches the client.
func Internal(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// From normalizes any error to an *Error. Unknown errors become opaque 500s
// so internals never leak into responses.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}
