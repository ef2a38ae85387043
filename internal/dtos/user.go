// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/uniguru/uniguru-server/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
// Sensitive fields like the password hash are excluded.
type UserResponseDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserCreateRequestDTO represents the expected payload to create a new user.
type UserCreateRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserLoginRequestDTO represents the login payload. Identifier accepts a
// username or an email address.
type UserLoginRequestDTO struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=1"`
}

// UserLoginResponseDTO represents the login response.
type UserLoginResponseDTO struct {
	User  UserResponseDTO `json:"user"`
	Token string          `json:"token"`
}

// FromUser maps a domain.User to UserResponseDTO for public API responses.
func FromUser(user domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

// Response wrapper DTOs for consistent API responses

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// CreateSuccessResponse creates a standard success response
func CreateSuccessResponse(data interface{}, message string) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// CreateErrorResponse creates a standard error response
func CreateErrorResponse(error string, details []string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   error,
		Details: details,
	}
}
