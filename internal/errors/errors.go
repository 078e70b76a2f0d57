package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeGateway      = "GATEWAY_ERROR"
	ErrCodeInProgress   = "SUBMISSION_IN_PROGRESS"
	ErrCodeTimeout      = "GATEWAY_TIMEOUT"
	ErrCodeCanceled     = "REQUEST_CANCELED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Field   string // Offending input field for validation errors
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As reports whether err is (or wraps) an *AppError and returns it.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an *AppError carrying the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
		Field:   field,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewUnauthorizedError creates a new UNAUTHORIZED error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// NewForbiddenError creates a new FORBIDDEN error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  403,
	}
}

// NewGatewayError wraps a remote data gateway failure. The message is passed
// through verbatim so it can be shown to the user.
func NewGatewayError(status int, message string, err error) *AppError {
	if status == 0 {
		status = 502
	}
	return &AppError{
		Code:    ErrCodeGateway,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// NewTimeoutError creates a new GATEWAY_TIMEOUT error
func NewTimeoutError(operation string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: fmt.Sprintf("%s timed out", operation),
		Status:  504,
		Err:     err,
	}
}

// StatusClientClosedRequest is the non-standard status for a caller that went
// away before the response was ready.
const StatusClientClosedRequest = 499

// NewCanceledError is returned when the caller's context ended mid-operation.
func NewCanceledError(operation string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeCanceled,
		Message: fmt.Sprintf("%s canceled", operation),
		Status:  StatusClientClosedRequest,
		Err:     err,
	}
}

// NewInProgressError is returned when a submission for the same user and form
// is still outstanding.
func NewInProgressError(form string) *AppError {
	return &AppError{
		Code:    ErrCodeInProgress,
		Message: fmt.Sprintf("a %s submission is already in progress", form),
		Status:  409,
	}
}
