package repository

import (
	"errors"
	"fmt"
)

// Gateway error codes. Postgres SQLSTATE values are used verbatim so every
// backend reports the same code for the same failure.
const (
	CodeNotFound         = "PGRST116"
	CodeUniqueViolation  = "23505"
	CodeForeignKey       = "23503"
	CodeNotNull          = "23502"
	CodeCheckViolation   = "23514"
	CodePermissionDenied = "42501"
	CodeUnavailable      = "08006"
)

// GatewayError is returned by every repository implementation.
type GatewayError struct {
	Code    string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NotFound builds the error returned when no row matches the key.
func NotFound(table, id string) *GatewayError {
	return &GatewayError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("no %s row for id %s", table, id),
	}
}

// CodeOf returns the gateway code carried by err, or "".
func CodeOf(err error) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Code
	}
	return ""
}

// IsNotFound reports whether err is the gateway's "no row" error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}
