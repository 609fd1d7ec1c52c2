package errors

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
)

// ErrorType is the closed set of failure kinds surfaced by the lookup pipeline
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeRateLimit     ErrorType = "rate_limit"
	ErrorTypeTimeout       ErrorType = "timeout"
	ErrorTypeInvalidFormat ErrorType = "invalid_format"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// Error represents a classified lookup failure
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing account
func NotFound() *Error {
	return &Error{Type: ErrorTypeNotFound, Message: "User not found"}
}

// RateLimited reports server-side throttling
func RateLimited() *Error {
	return &Error{Type: ErrorTypeRateLimit, Message: "Rate limit - please wait before trying again"}
}

// Timeout reports a request that exceeded the client timeout
func Timeout() *Error {
	return &Error{Type: ErrorTypeTimeout, Message: "Request timeout - please try again"}
}

// InvalidFormat reports a user ID that is not an integer
func InvalidFormat() *Error {
	return &Error{Type: ErrorTypeInvalidFormat, Message: "Invalid ID format"}
}

// Unknown wraps any other failure with a detail message
func Unknown(format string, args ...interface{}) *Error {
	return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf(format, args...)}
}

// WithCode attaches the HTTP status code that triggered the error
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

// WithCause attaches the underlying error
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown for foreign errors
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err is an *Error of the given type
func Is(err error, t ErrorType) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == t
}

// IsCancelled reports whether err stems from a cancelled context
func IsCancelled(err error) bool {
	return stderrors.Is(err, context.Canceled)
}

// FromTransport classifies a failure that happened before any response was read
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, context.Canceled) {
		return Unknown("request cancelled").WithCause(err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return Timeout().WithCause(err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return Timeout().WithCause(err)
	}

	return Unknown("request failed: %v", err).WithCause(err)
}

// DecodeBody parses a JSON document, keeping numbers as json.Number.
//
// The remote API answers throttled requests with an HTML page instead of a
// status code, so any body that is not a single JSON value (empty bodies
// included) is classified as a rate limit.
func DecodeBody(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, RateLimited().WithCause(err)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return nil, RateLimited().WithCause(err)
	}

	return v, nil
}

// Hint returns an actionable suggestion for the given error type, if any
func Hint(t ErrorType) string {
	switch t {
	case ErrorTypeRateLimit:
		return "Try again in a few minutes or use a different session ID"
	case ErrorTypeNotFound:
		return "Check the username/ID spelling and try again"
	case ErrorTypeTimeout:
		return "Check your internet connection and try again"
	default:
		return ""
	}
}
