// Package errors provides the structured error taxonomy shared by the
// display and user-store layers.
//
// Errors fall into four caller-facing categories: validation (a violated
// precondition such as a nil aggregate), not-found (an absent aggregate or
// unparseable identifier), conflict (a business rule rejection such as a
// duplicate login provider), and storage (a persistence failure surfaced by
// the document session). Validation and conflict errors propagate to the
// caller; storage errors are translated into result values at the operation
// boundary.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// ThemaError is a structured error type with context.
type ThemaError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *ThemaError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ThemaError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ThemaError) Is(target error) bool {
	var t *ThemaError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ThemaError) WithContext(key string, value interface{}) *ThemaError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *ThemaError) WithComponent(component string) *ThemaError {
	e.Component = component

	return e
}

// Error creation functions

// NewValidationError creates a validation (precondition) error.
func NewValidationError(code, message string) *ThemaError {
	return &ThemaError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(code, message string) *ThemaError {
	return &ThemaError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConflictError creates a business-rule rejection error.
func NewConflictError(code, message string) *ThemaError {
	return &ThemaError{
		Type:        ErrorTypeConflict,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewStorageError creates a persistence error.
func NewStorageError(code, message string, cause error) *ThemaError {
	return &ThemaError{
		Type:        ErrorTypeStorage,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *ThemaError {
	return &ThemaError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *ThemaError {
	return &ThemaError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Classification helpers

// IsValidation checks if an error is a precondition violation.
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsNotFound checks if an error represents an absent aggregate.
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsConflict checks if an error is a business-rule rejection.
func IsConflict(err error) bool {
	return isType(err, ErrorTypeConflict)
}

// IsStorage checks if an error is a persistence failure.
func IsStorage(err error) bool {
	return isType(err, ErrorTypeStorage)
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var te *ThemaError
	if errors.As(err, &te) {
		return te.Recoverable
	}

	return false
}

func isType(err error, t ErrorType) bool {
	var te *ThemaError
	if errors.As(err, &te) {
		return te.Type == t
	}

	return false
}
