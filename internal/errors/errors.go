package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies report-generation failures.
type ErrorType string

const (
	// ErrTypeSchema signals input whose shape does not match the expected
	// column contract. Fatal for the report being generated.
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypePrecondition signals a violated internal invariant, which
	// means an upstream step produced something it should not have.
	ErrTypePrecondition ErrorType = "PRECONDITION"
	ErrTypeFetch        ErrorType = "FETCH"
	ErrTypeWorkbook     ErrorType = "WORKBOOK"
	ErrTypeRender       ErrorType = "RENDER"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the common error types

// NewSchemaError creates a schema contract error
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewPreconditionError creates an invariant-violation error
func NewPreconditionError(message string) *AppError {
	return NewAppError(ErrTypePrecondition, message, nil)
}

// NewFetchError creates a remote-dataset error
func NewFetchError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFetch, message, cause)
}

// NewWorkbookError creates a spreadsheet-loading error
func NewWorkbookError(message string, cause error) *AppError {
	return NewAppError(ErrTypeWorkbook, message, cause)
}

// NewRenderError creates an artifact-writing error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsSchema reports whether err is a schema contract error
func IsSchema(err error) bool {
	return IsType(err, ErrTypeSchema)
}

// IsPrecondition reports whether err is an invariant-violation error
func IsPrecondition(err error) bool {
	return IsType(err, ErrTypePrecondition)
}
