// File: internal/handlers/log_handler.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// FrontendLogPayload is the structure for logs coming from the browser.
type FrontendLogPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Context any    `json:"context,omitempty"`
}

// LogFrontendEvent ingests client-side log events so frontend failures
// show up next to server logs.
func LogFrontendEvent(w http.ResponseWriter, r *http.Request) {
	var payload FrontendLogPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slog.Info("CLIENT_LOG",
		slog.String("level", payload.Level),
		slog.String("message", payload.Message),
		slog.Any("context", payload.Context),
	)

	w.WriteHeader(http.StatusNoContent)
}
