package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields,omitempty"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrConflict
	ErrUnauthorized
	ErrInternal
)

var kinds = map[ErrorCode]string{
	ErrNotFound:     "not_found",
	ErrValidation:   "validation_error",
	ErrConflict:     "conflict",
	ErrUnauthorized: "unauthorized",
	ErrInternal:     "internal_error",
}

var statuses = map[ErrorCode]int{
	ErrNotFound:     http.StatusNotFound,
	ErrValidation:   http.StatusBadRequest,
	ErrConflict:     http.StatusConflict,
	ErrUnauthorized: http.StatusUnauthorized,
	ErrInternal:     http.StatusInternalServerError,
}

// String returns the wire name of the code.
func (c ErrorCode) String() string {
	if k, ok := kinds[c]; ok {
		return k
	}
	return kinds[ErrInternal]
}

// StatusCode returns the HTTP status for the error code.
func (e *AppError) StatusCode() int {
	return statuses[e.Code]
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

// Validation reports malformed or missing input. fields names the offending inputs.
func Validation(message string, fields ...string) *AppError {
	if len(fields) > 0 {
		message = fmt.Sprintf("%s: %s", message, strings.Join(fields, ", "))
	}
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Fields:  fields,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Code:    ErrUnauthorized,
		Message: message,
		Err:     err,
	}
}

// Internal wraps a persistence or infrastructure failure. The message is opaque on purpose;
// err is only ever logged.
func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, treating anything that is not an AppError as internal.
func CodeOf(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrInternal
}

func IsNotFound(err error) bool     { return err != nil && CodeOf(err) == ErrNotFound }
func IsValidation(err error) bool   { return err != nil && CodeOf(err) == ErrValidation }
func IsConflict(err error) bool     { return err != nil && CodeOf(err) == ErrConflict }
func IsUnauthorized(err error) bool { return err != nil && CodeOf(err) == ErrUnauthorized }

// HTTPStatus maps err onto a response status.
func HTTPStatus(err error) int {
	return statuses[CodeOf(err)]
}
