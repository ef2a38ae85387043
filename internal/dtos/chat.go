// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/uniguru/uniguru-server/internal/domain"
	chat "github.com/uniguru/uniguru-server/internal/services/chat"
)

// ChatSettingsDTO exposes the per-chat behavior flags.
type ChatSettingsDTO struct {
	AutoTitle   bool `json:"auto_title"`
	SaveHistory bool `json:"save_history"`
}

// ChatStatsDTO exposes the per-chat counters.
type ChatStatsDTO struct {
	MessageCount int    `json:"message_count"`
	TotalTokens  int    `json:"total_tokens"`
	LastActivity string `json:"last_activity,omitempty"`
	RenameCount  int    `json:"rename_count"`
}

// SharedEntryDTO describes one user a chat is shared with.
type SharedEntryDTO struct {
	UserID     uint   `json:"user_id"`
	Permission string `json:"permission"`
	SharedAt   string `json:"shared_at"`
}

// ChatResponseDTO defines what fields to expose in chat API responses.
type ChatResponseDTO struct {
	ID         uint             `json:"id"`
	PublicID   string           `json:"public_id"`
	UserID     uint             `json:"user_id"`
	GuruID     uint             `json:"guru_id"`
	Title      string           `json:"title"`
	IsActive   bool             `json:"is_active"`
	IsArchived bool             `json:"is_archived"`
	IsPublic   bool             `json:"is_public"`
	Settings   ChatSettingsDTO  `json:"settings"`
	Stats      ChatStatsDTO     `json:"stats"`
	Tags       []string         `json:"tags"`
	SharedWith []SharedEntryDTO `json:"shared_with"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}

// MessageResponseDTO defines what fields to expose for a single message.
// HTML carries the rendered markdown when the client asks for it.
type MessageResponseDTO struct {
	ID               uint   `json:"id"`
	ChatID           uint   `json:"chat_id"`
	Sender           string `json:"sender"`
	Content          string `json:"content"`
	HTML             string `json:"html,omitempty"`
	Model            string `json:"model,omitempty"`
	Tokens           int    `json:"tokens,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time_ms,omitempty"`
	Error            string `json:"error,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// ChatCreateRequestDTO represents the payload to start a chat with a guru.
type ChatCreateRequestDTO struct {
	GuruID uint   `json:"guru_id" validate:"required"`
	Title  string `json:"title,omitempty"`
}

// ChatRenameRequestDTO represents the rename payload.
type ChatRenameRequestDTO struct {
	Title string `json:"title" validate:"required,max=200"`
}

// ChatUpdateRequestDTO represents a partial chat update. Titles change
// through the rename endpoint, not here.
type ChatUpdateRequestDTO struct {
	IsPublic    *bool     `json:"is_public,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	AutoTitle   *bool     `json:"auto_title,omitempty"`
	SaveHistory *bool     `json:"save_history,omitempty"`
}

// ChatShareRequestDTO represents the payload to share a chat with a user.
type ChatShareRequestDTO struct {
	UserID     uint   `json:"user_id" validate:"required"`
	Permission string `json:"permission" validate:"required,oneof=read write"`
}

// SendMessageRequestDTO represents the payload to send a message. ChatID
// is optional; when absent the server finds or creates an active chat
// with the given guru.
type SendMessageRequestDTO struct {
	ChatID  uint   `json:"chat_id,omitempty"`
	GuruID  uint   `json:"guru_id,omitempty"`
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// SendMessageResponseDTO carries the full round trip: the chat (which may
// have just been created), the stored user message, and the guru reply.
type SendMessageResponseDTO struct {
	Chat        ChatResponseDTO    `json:"chat"`
	UserMessage MessageResponseDTO `json:"user_message"`
	Reply       MessageResponseDTO `json:"reply"`
}

// ToInput maps the update request to the service-layer input.
func (dto ChatUpdateRequestDTO) ToInput() chat.UpdateInput {
	return chat.UpdateInput{
		IsPublic:    dto.IsPublic,
		Tags:        dto.Tags,
		AutoTitle:   dto.AutoTitle,
		SaveHistory: dto.SaveHistory,
	}
}

// FromChat maps a domain.Chat to ChatResponseDTO.
func FromChat(c domain.Chat) ChatResponseDTO {
	dto := ChatResponseDTO{
		ID:         c.ID,
		PublicID:   c.PublicID,
		UserID:     c.UserID,
		GuruID:     c.GuruID,
		Title:      c.Title,
		IsActive:   c.IsActive,
		IsArchived: c.IsArchived,
		IsPublic:   c.IsPublic,
		Settings: ChatSettingsDTO{
			AutoTitle:   c.Settings.AutoTitle,
			SaveHistory: c.Settings.SaveHistory,
		},
		Stats: ChatStatsDTO{
			MessageCount: c.Stats.MessageCount,
			TotalTokens:  c.Stats.TotalTokens,
			RenameCount:  c.Stats.RenameCount,
		},
		Tags:       c.Tags,
		SharedWith: make([]SharedEntryDTO, 0, len(c.SharedWith)),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if !c.Stats.LastActivity.IsZero() {
		dto.Stats.LastActivity = c.Stats.LastActivity.Format(time.RFC3339)
	}
	for _, entry := range c.SharedWith {
		dto.SharedWith = append(dto.SharedWith, SharedEntryDTO{
			UserID:     entry.UserID,
			Permission: entry.Permission,
			SharedAt:   entry.SharedAt.Format(time.RFC3339),
		})
	}
	return dto
}

// FromChatSlice maps a slice of domain.Chat to []ChatResponseDTO.
func FromChatSlice(chats []domain.Chat) []ChatResponseDTO {
	out := make([]ChatResponseDTO, len(chats))
	for i, c := range chats {
		out[i] = FromChat(c)
	}
	return out
}

// FromMessage maps a domain.Message to MessageResponseDTO.
func FromMessage(m domain.Message) MessageResponseDTO {
	return MessageResponseDTO{
		ID:               m.ID,
		ChatID:           m.ChatID,
		Sender:           m.Sender,
		Content:          m.Content,
		Model:            m.Model,
		Tokens:           m.Tokens,
		ProcessingTimeMs: m.ProcessingTime.Milliseconds(),
		Error:            m.Error,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
}

// FromMessageSlice maps a slice of domain.Message to []MessageResponseDTO.
func FromMessageSlice(messages []domain.Message) []MessageResponseDTO {
	out := make([]MessageResponseDTO, len(messages))
	for i, m := range messages {
		out[i] = FromMessage(m)
	}
	return out
}
