// File: internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/uniguru/uniguru-server/internal/dtos"
	"github.com/uniguru/uniguru-server/internal/services/user_services"
)

var (
	usernameRegex     = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	passwordMinLength = 8
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	UserService *user_services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.UserService) *AuthHandler {
	return &AuthHandler{UserService: service}
}

// validateRegistration ensures username, email, and password meet basic rules.
func validateRegistration(username, email, password string) string {
	switch {
	case !usernameRegex.MatchString(username):
		return "Username must be 3-20 characters, alphanumeric or underscore."
	case !emailRegex.MatchString(email):
		return "Email address format invalid."
	case len(password) < passwordMinLength:
		return "Password must be at least 8 characters."
	}
	return ""
}

// Register handles new user registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.UserCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if errMsg := validateRegistration(username, email, req.Password); errMsg != "" {
		writeError(w, errMsg, http.StatusBadRequest)
		return
	}

	created, err := h.UserService.Register(r.Context(), username, email, req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrUserExists) {
			writeError(w, "Username or email already registered", http.StatusConflict)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.CreateSuccessResponse(dtos.FromUser(*created), "registration successful"))
}

// Login validates user credentials and returns a JWT. The token is also
// set as an HttpOnly cookie for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.UserLoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		writeError(w, "Identifier and password are required", http.StatusBadRequest)
		return
	}

	u, token, err := h.UserService.Login(r.Context(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, user_services.ErrInvalidCredentials) {
			writeError(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		writeError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, dtos.UserLoginResponseDTO{
		User:  dtos.FromUser(*u),
		Token: token,
	})
}

// Logout clears the auth cookie. Stateless tokens are not revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	u, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromUser(*u))
}
