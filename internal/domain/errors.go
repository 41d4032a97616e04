package domain

import "fmt"

// Code classifies every failure an operation can surface to its caller.
type Code string

const (
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeInternal         Code = "INTERNAL"
)

// Error is the taxonomy error returned by services. Handlers map its
// Code to an HTTP status; the message is shown to the end user verbatim.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match two taxonomy errors by code alone, so handler
// switches don't depend on message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Unauthorized(msg string) *Error     { return NewError(CodeUnauthorized, msg) }
func Forbidden(msg string) *Error        { return NewError(CodeForbidden, msg) }
func NotFound(msg string) *Error         { return NewError(CodeNotFound, msg) }
func Conflict(msg string) *Error         { return NewError(CodeConflict, msg) }
func InvalidOperation(msg string) *Error { return NewError(CodeInvalidOperation, msg) }
func Internal(msg string) *Error         { return NewError(CodeInternal, msg) }

// ErrorCode extracts the taxonomy code from err, or CodeInternal when
// err is not a taxonomy error.
func ErrorCode(err error) Code {
	var e *Error
	for err != nil {
		if de, ok := err.(*Error); ok {
			e = de
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return CodeInternal
	}
	return e.Code
}
