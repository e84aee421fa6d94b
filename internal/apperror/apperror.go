// Package apperror defines the error taxonomy shared by services and handlers.
// Services return *AppError values; handlers turn them into HTTP responses
// through StatusCode and ToResponse.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unclassified failures.
	UnknownError ErrorType = iota
	// DatabaseError is a storage connection or query failure.
	DatabaseError
	// ConfigError is a configuration loading failure.
	ConfigError
	// AuthError means the caller is not authenticated (missing, invalid or expired credential).
	AuthError
	// ForbiddenError means the caller is authenticated but does not own the resource.
	ForbiddenError
	// NotFoundError means a referenced question, answer, tag, comment or user does not exist.
	NotFoundError
	// ValidationError covers malformed input and storage constraint violations.
	ValidationError
	// ConflictError means the resource already exists (e.g. a registered email).
	ConflictError
	// InternalError is a generic internal failure.
	InternalError
)

// AppError carries a classification, a user-facing message and an optional cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse exposes only the message, never the wrapped cause.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewDatabaseError(message string, err error) *AppError {
	return New(DatabaseError, message, err)
}

func NewConfigError(message string, err error) *AppError {
	return New(ConfigError, message, err)
}

func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

func NewForbiddenError(message string, err error) *AppError {
	return New(ForbiddenError, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return New(NotFoundError, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return New(ValidationError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

// FromError finds an *AppError anywhere in err's chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	appErr, ok := FromError(err)
	return ok && appErr.Type == t
}

func IsNotFound(err error) bool   { return isType(err, NotFoundError) }
func IsValidation(err error) bool { return isType(err, ValidationError) }
func IsAuth(err error) bool       { return isType(err, AuthError) }
func IsForbidden(err error) bool  { return isType(err, ForbiddenError) }
func IsConflict(err error) bool   { return isType(err, ConflictError) }
func IsDatabase(err error) bool   { return isType(err, DatabaseError) }
