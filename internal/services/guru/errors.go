// File: internal/services/guru/errors.go
package guru

import "fmt"

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeDependency   ErrorType = "DEPENDENCY"
)

// GuruError carries a stable kind so callers can tell "doesn't exist"
// from "exists but not yours" from "bad input".
type GuruError struct {
	Type      ErrorType
	Operation string
	Message   string
	GuruID    uint
	UserID    uint
	Cause     error
}

func (e *GuruError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Guru %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Guru %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *GuruError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *GuruError {
	return &GuruError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation string, guruID uint) *GuruError {
	return &GuruError{Type: ErrTypeNotFound, Operation: operation, Message: "guru not found", GuruID: guruID}
}

func NewUnauthorizedError(operation string, userID, guruID uint) *GuruError {
	return &GuruError{
		Type:      ErrTypeUnauthorized,
		Operation: operation,
		Message:   "guru access denied",
		UserID:    userID,
		GuruID:    guruID,
	}
}

func NewDependencyError(operation, msg string, cause error) *GuruError {
	return &GuruError{Type: ErrTypeDependency, Operation: operation, Message: msg, Cause: cause}
}
