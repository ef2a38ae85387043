// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeDependency   ErrorType = "DEPENDENCY"
)

// ChatError carries a stable kind plus the identifiers involved, so the
// HTTP layer can map it without string matching.
type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    uint
	UserID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation string, chatID uint) *ChatError {
	return &ChatError{Type: ErrTypeNotFound, Operation: operation, Message: "chat not found", ChatID: chatID}
}

func NewUnauthorizedError(userID, chatID uint) *ChatError {
	return &ChatError{
		Type:      ErrTypeUnauthorized,
		Operation: "authorization",
		Message:   "chat access denied",
		UserID:    userID,
		ChatID:    chatID,
	}
}

func NewDependencyError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeDependency, Operation: operation, Message: msg, Cause: cause}
}
