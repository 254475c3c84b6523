package errors

import (
	"errors"
	"fmt"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeNotInitialized ErrorType = "NOT_INITIALIZED_ERROR"
	ErrorTypeEmptyResult    ErrorType = "EMPTY_RESULT_ERROR"
	ErrorTypeBackend        ErrorType = "BACKEND_ERROR"
	ErrorTypeAuthorization  ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrDocumentNotFound = errors.New("document not found")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Component string    `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message)
}

// NewNotFoundError creates a not found error carrying a caller-facing message.
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrorTypeNotFound, message)
}

// NewNotInitializedError reports a backend whose connection handle is absent.
func NewNotInitializedError(message string) *AppError {
	return NewAppError(ErrorTypeNotInitialized, message)
}

// NewEmptyResultError reports a query that matched nothing.
func NewEmptyResultError(message string) *AppError {
	return NewAppError(ErrorTypeEmptyResult, message)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message)
}

// WrapBackend wraps a failure raised by a backend client. The message names
// the operation, e.g. "Error adding document".
func WrapBackend(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewAppError(ErrorTypeBackend, message).WithCause(err)
}

func typeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if t, ok := typeOf(err); ok && t == ErrorTypeNotFound {
		return true
	}
	return errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrFileNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeValidation
}

// IsNotInitialized checks if an error reports a missing backend
func IsNotInitialized(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeNotInitialized
}

// IsEmptyResult checks if an error reports an empty query result
func IsEmptyResult(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeEmptyResult
}

// IsBackend checks if an error was raised by a backend client
func IsBackend(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeBackend
}

// IsAuthorization checks if an error is an authorization error
func IsAuthorization(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeAuthorization
}
