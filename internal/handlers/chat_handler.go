// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/uniguru/uniguru-server/internal/domain"
	"github.com/uniguru/uniguru-server/internal/dtos"
	"github.com/uniguru/uniguru-server/internal/services"
)

// ChatHandler exposes the chat lifecycle over HTTP.
type ChatHandler struct {
	ChatService     *services.ChatService
	MarkdownService *services.MarkdownService
}

func NewChatHandler(cs *services.ChatService, ms *services.MarkdownService) *ChatHandler {
	return &ChatHandler{
		ChatService:     cs,
		MarkdownService: ms,
	}
}

// CreateChat handles POST /api/chats.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.ChatCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.GuruID == 0 {
		writeError(w, "guru_id is required", http.StatusBadRequest)
		return
	}

	c, err := h.ChatService.CreateChat(r.Context(), userID, req.GuruID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromChat(*c))
}

// ListChats handles GET /api/chats. Archived chats are excluded unless
// ?include_archived=true.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"
	chats, err := h.ChatService.ListChats(r.Context(), userID, includeArchived)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChatSlice(chats))
}

// GetChat handles GET /api/chats/{id}.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	c, err := h.ChatService.GetChat(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChat(*c))
}

// GetChatMessages handles GET /api/chats/{id}/messages. With
// ?format=html each message additionally carries its markdown rendered
// to HTML.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	messages, err := h.ChatService.GetChatMessages(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := dtos.FromMessageSlice(messages)
	if r.URL.Query().Get("format") == "html" {
		h.renderMessages(out)
	}
	writeJSON(w, http.StatusOK, out)
}

// SendMessage handles POST /api/chats/messages. The request either
// names an existing chat or a guru; with only a guru the server
// continues the most recent active chat, creating one if needed.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.SendMessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ChatID == 0 && req.GuruID == 0 {
		writeError(w, "chat_id or guru_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.SendMessage(r.Context(), userID, req.ChatID, req.GuruID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.SendMessageResponseDTO{
		Chat:        dtos.FromChat(*result.Chat),
		UserMessage: dtos.FromMessage(*result.UserMessage),
		Reply:       dtos.FromMessage(*result.Reply),
	})
}

// SendMessageToChat handles POST /api/chats/{id}/messages: a send
// addressed to one specific chat.
func (h *ChatHandler) SendMessageToChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req dtos.SendMessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.ChatService.SendMessage(r.Context(), userID, chatID, 0, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.SendMessageResponseDTO{
		Chat:        dtos.FromChat(*result.Chat),
		UserMessage: dtos.FromMessage(*result.UserMessage),
		Reply:       dtos.FromMessage(*result.Reply),
	})
}

// RenameChat handles PUT /api/chats/{id}/rename.
func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req dtos.ChatRenameRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.ChatService.RenameChat(r.Context(), userID, chatID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChat(*c))
}

// UpdateChat handles PATCH /api/chats/{id}: visibility, tags, and the
// per-chat behavior flags. Titles go through the rename endpoint.
func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req dtos.ChatUpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.ChatService.UpdateChat(r.Context(), userID, chatID, req.ToInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChat(*c))
}

// ShareChat handles POST /api/chats/{id}/share.
func (h *ChatHandler) ShareChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	var req dtos.ChatShareRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.ChatService.ShareChat(r.Context(), userID, chatID, req.UserID, req.Permission)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChat(*c))
}

// ClearMessages handles DELETE /api/chats/{id}/messages.
func (h *ChatHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	c, err := h.ChatService.ClearMessages(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromChat(*c))
}

// ArchiveChat handles DELETE /api/chats/{id}: the canonical delete.
// Data stays; use the /permanent route for a real delete.
func (h *ChatHandler) ArchiveChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.ArchiveChat(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveAll handles DELETE /api/chats.
func (h *ChatHandler) ArchiveAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	archived, err := h.ChatService.ArchiveAll(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"archived": archived})
}

// HardDeleteChat handles DELETE /api/chats/{id}/permanent.
func (h *ChatHandler) HardDeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	if err := h.ChatService.HardDeleteChat(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSharedChat handles GET /api/shared/chats/{publicId}. No auth: the
// route serves only chats their owner flagged public, and a private or
// unknown ID looks identical from outside.
func (h *ChatHandler) GetSharedChat(w http.ResponseWriter, r *http.Request) {
	publicID := mux.Vars(r)["publicId"]
	if publicID == "" {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	c, messages, err := h.ChatService.GetPublicChat(r.Context(), publicID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := dtos.FromMessageSlice(messages)
	if r.URL.Query().Get("format") == "html" {
		h.renderMessages(out)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chat":     dtos.FromChat(*c),
		"messages": out,
	})
}

// renderMessages fills the HTML field on guru replies. User messages are
// plain text and stay as-is.
func (h *ChatHandler) renderMessages(messages []dtos.MessageResponseDTO) {
	if h.MarkdownService == nil {
		return
	}
	for i := range messages {
		if messages[i].Sender != domain.SenderGuru {
			continue
		}
		if html, err := h.MarkdownService.Render(messages[i].Content); err == nil {
			messages[i].HTML = html
		}
	}
}
