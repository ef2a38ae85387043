// File: internal/handlers/guru_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/uniguru/uniguru-server/internal/dtos"
	"github.com/uniguru/uniguru-server/internal/services"
)

// GuruHandler exposes persona management over HTTP.
type GuruHandler struct {
	GuruService *services.GuruService
}

func NewGuruHandler(gs *services.GuruService) *GuruHandler {
	return &GuruHandler{GuruService: gs}
}

// CreateGuru handles POST /api/gurus.
func (h *GuruHandler) CreateGuru(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.GuruCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.GuruService.CreateGuru(r.Context(), userID, req.ToInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromGuru(*g, userID))
}

// ListGurus handles GET /api/gurus. The default scope is the visible
// set (own plus public, active only); ?scope=own returns everything the
// user owns including deactivated personas.
func (h *GuruHandler) ListGurus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var err error
	var gurus []dtos.GuruResponseDTO
	if r.URL.Query().Get("scope") == "own" {
		own, listErr := h.GuruService.ListOwnGurus(r.Context(), userID)
		gurus, err = dtos.FromGuruSlice(own, userID), listErr
	} else {
		visible, listErr := h.GuruService.ListVisibleGurus(r.Context(), userID)
		gurus, err = dtos.FromGuruSlice(visible, userID), listErr
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gurus)
}

// GetGuru handles GET /api/gurus/{id}.
func (h *GuruHandler) GetGuru(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	guruID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid guru ID", http.StatusBadRequest)
		return
	}

	g, err := h.GuruService.GetGuru(r.Context(), userID, guruID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromGuru(*g, userID))
}

// UpdateGuru handles PUT /api/gurus/{id}.
func (h *GuruHandler) UpdateGuru(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	guruID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid guru ID", http.StatusBadRequest)
		return
	}

	var req dtos.GuruUpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.GuruService.UpdateGuru(r.Context(), userID, guruID, req.ToInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromGuru(*g, userID))
}

// DeleteGuru handles DELETE /api/gurus/{id}: deactivation plus archival
// of the owner's chats, never a row delete.
func (h *GuruHandler) DeleteGuru(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	guruID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid guru ID", http.StatusBadRequest)
		return
	}

	if err := h.GuruService.SoftDeleteGuru(r.Context(), userID, guruID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/gurus/{id}/like. Each call flips the
// caller's like state.
func (h *GuruHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	guruID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid guru ID", http.StatusBadRequest)
		return
	}

	g, err := h.GuruService.ToggleLike(r.Context(), userID, guruID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromGuru(*g, userID))
}
