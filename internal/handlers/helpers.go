// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/uniguru/uniguru-server/internal/middleware"
	chatservice "github.com/uniguru/uniguru-server/internal/services/chat"
	"github.com/uniguru/uniguru-server/internal/services/composer"
	guruservice "github.com/uniguru/uniguru-server/internal/services/guru"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requireUserID pulls the authenticated user out of the request context.
// The JWT middleware guarantees it is set on protected routes.
func requireUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses a numeric {id}-style path variable.
func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// writeServiceError maps typed service errors onto HTTP statuses.
// Unauthorized deliberately maps to 403: the caller is authenticated but
// not allowed, which is distinct from a missing resource.
func writeServiceError(w http.ResponseWriter, err error) {
	var chatErr *chatservice.ChatError
	if errors.As(err, &chatErr) {
		writeError(w, chatErr.Message, statusForType(string(chatErr.Type)))
		return
	}

	var guruErr *guruservice.GuruError
	if errors.As(err, &guruErr) {
		writeError(w, guruErr.Message, statusForType(string(guruErr.Type)))
		return
	}

	var composerErr *composer.ComposerError
	if errors.As(err, &composerErr) {
		if composerErr.Type == composer.ErrTypeTimeout {
			writeError(w, composerErr.Message, http.StatusGatewayTimeout)
			return
		}
		writeError(w, composerErr.Message, statusForType(string(composerErr.Type)))
		return
	}

	writeError(w, "Internal server error", http.StatusInternalServerError)
}

func statusForType(errType string) int {
	switch errType {
	case "VALIDATION":
		return http.StatusBadRequest
	case "NOT_FOUND":
		return http.StatusNotFound
	case "UNAUTHORIZED":
		return http.StatusForbidden
	case "DEPENDENCY":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
