// File: internal/services/composer/errors.go
package composer

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeDependency ErrorType = "DEPENDENCY"
	ErrTypeTimeout    ErrorType = "TIMEOUT"
)

type ComposerError struct {
	Type      ErrorType
	Operation string
	Message   string
	TraceID   string
	Cause     error
}

func (e *ComposerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Composer %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Composer %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ComposerError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ComposerError {
	return &ComposerError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewDependencyError(operation, msg string, cause error) *ComposerError {
	return &ComposerError{Type: ErrTypeDependency, Operation: operation, Message: msg, Cause: cause}
}
