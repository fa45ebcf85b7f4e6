package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrConflict
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}
