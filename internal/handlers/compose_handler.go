// File: internal/handlers/compose_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/uniguru/uniguru-server/internal/services/composer"
)

// ComposeRequest mirrors the composer script's CLI contract.
type ComposeRequest struct {
	TraceID          string           `json:"trace_id,omitempty"`
	ExtractiveAnswer string           `json:"extractive_answer"`
	TopChunks        []composer.Chunk `json:"top_chunks"`
	Lang             string           `json:"lang,omitempty"`
}

// ComposeHandler exposes the Python text-composition side-channel.
type ComposeHandler struct {
	Composer *composer.Service
}

func NewComposeHandler(svc *composer.Service) *ComposeHandler {
	return &ComposeHandler{Composer: svc}
}

// Compose handles POST /api/compose.
func (h *ComposeHandler) Compose(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TraceID == "" {
		req.TraceID = uuid.NewString()
	}

	result, err := h.Composer.Compose(r.Context(), req.TraceID, req.ExtractiveAnswer, req.TopChunks, req.Lang)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
