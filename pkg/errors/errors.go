// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package errors defines the typed error outcomes shared across the openEO
// backend core. Every failure that crosses a package boundary is one of the
// kinds below, so the transport layer can map it to a status code without
// inspecting error strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds
const (
	// ErrValidation is returned when a bearer credential is malformed
	ErrValidation = "validation"

	// ErrConfiguration is returned when the identity provider's discovery
	// document or key set is unreachable or malformed
	ErrConfiguration = "configuration"

	// ErrTokenInvalid is returned when a token fails signature, key-match
	// or profile-fetch verification
	ErrTokenInvalid = "token_invalid"

	// ErrAuthorizationDenied is returned when a verified user matches no
	// configured authorization policy
	ErrAuthorizationDenied = "authorization_denied"

	// ErrTokenCantBeValidated is returned when a token uses an unsupported
	// authentication method
	ErrTokenCantBeValidated = "token_cant_be_validated"

	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = "not_found"

	// ErrConflict is returned when creating an entity whose primary key
	// already exists
	ErrConflict = "conflict"

	// ErrInternal is returned when there is an internal error
	ErrInternal = "internal"
)

// statusCodes maps each error kind to the status code used at the
// transport boundary.
var statusCodes = map[string]int{
	ErrValidation:           http.StatusBadRequest,
	ErrConfiguration:        http.StatusInternalServerError,
	ErrTokenInvalid:         http.StatusUnauthorized,
	ErrAuthorizationDenied:  http.StatusForbidden,
	ErrTokenCantBeValidated: http.StatusUnauthorized,
	ErrNotFound:             http.StatusNotFound,
	ErrConflict:             http.StatusConflict,
	ErrInternal:             http.StatusInternalServerError,
}

// Error represents a typed error in the application
type Error struct {
	// Type is the error kind
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error. It is never included in Error(),
	// so provider internals do not leak to clients.
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code for the error kind.
func (e *Error) StatusCode() int {
	if code, ok := statusCodes[e.Type]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// New creates a new typed error
func New(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *Error {
	return New(ErrValidation, message, cause)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *Error {
	return New(ErrConfiguration, message, cause)
}

// NewTokenInvalidError creates a new token invalid error
func NewTokenInvalidError(message string, cause error) *Error {
	return New(ErrTokenInvalid, message, cause)
}

// NewAuthorizationDeniedError creates a new authorization denied error
func NewAuthorizationDeniedError(message string, cause error) *Error {
	return New(ErrAuthorizationDenied, message, cause)
}

// NewTokenCantBeValidatedError creates a new unsupported method error
func NewTokenCantBeValidatedError(message string, cause error) *Error {
	return New(ErrTokenCantBeValidated, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *Error {
	return New(ErrNotFound, message, cause)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, cause error) *Error {
	return New(ErrConflict, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *Error {
	return New(ErrInternal, message, cause)
}

// IsKind reports whether err is a typed error of the given kind.
func IsKind(err error, errorType string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errorType
	}
	return false
}
