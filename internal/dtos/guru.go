// File: internal/dtos/guru.go
package dtos

import (
	"time"

	"github.com/uniguru/uniguru-server/internal/domain"
	guru "github.com/uniguru/uniguru-server/internal/services/guru"
)

// GuruSettingsDTO exposes the per-guru generation settings.
type GuruSettingsDTO struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float32 `json:"top_p"`
}

// GuruStatsDTO exposes the per-guru usage counters.
type GuruStatsDTO struct {
	TotalChats    int    `json:"total_chats"`
	TotalMessages int    `json:"total_messages"`
	LastUsed      string `json:"last_used,omitempty"`
}

// GuruResponseDTO defines what fields to expose in guru API responses.
type GuruResponseDTO struct {
	ID           uint            `json:"id"`
	PublicID     string          `json:"public_id"`
	UserID       uint            `json:"user_id"`
	Name         string          `json:"name"`
	Subject      string          `json:"subject"`
	Description  string          `json:"description,omitempty"`
	SystemPrompt string          `json:"system_prompt"`
	Avatar       string          `json:"avatar,omitempty"`
	IsActive     bool            `json:"is_active"`
	IsPublic     bool            `json:"is_public"`
	Settings     GuruSettingsDTO `json:"settings"`
	Stats        GuruStatsDTO    `json:"stats"`
	Tags         []string        `json:"tags"`
	Likes        int             `json:"likes"`
	LikedByMe    bool            `json:"liked_by_me"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// GuruCreateRequestDTO represents the expected payload to create a guru.
// Settings fields are optional; the service fills in defaults.
type GuruCreateRequestDTO struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Subject     string   `json:"subject" validate:"required"`
	Description string   `json:"description,omitempty" validate:"max=500"`
	Avatar      string   `json:"avatar,omitempty"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags,omitempty"`
	Model       *string  `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
}

// GuruUpdateRequestDTO represents a partial guru update. Absent fields
// are left untouched.
type GuruUpdateRequestDTO struct {
	Name        *string   `json:"name,omitempty"`
	Subject     *string   `json:"subject,omitempty"`
	Description *string   `json:"description,omitempty"`
	Avatar      *string   `json:"avatar,omitempty"`
	IsPublic    *bool     `json:"is_public,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Model       *string   `json:"model,omitempty"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	TopP        *float32  `json:"top_p,omitempty"`
}

// ToInput maps the create request to the service-layer input.
func (dto GuruCreateRequestDTO) ToInput() guru.CreateInput {
	return guru.CreateInput{
		Name:        dto.Name,
		Subject:     dto.Subject,
		Description: dto.Description,
		Avatar:      dto.Avatar,
		IsPublic:    dto.IsPublic,
		Tags:        dto.Tags,
		Model:       dto.Model,
		Temperature: dto.Temperature,
		MaxTokens:   dto.MaxTokens,
		TopP:        dto.TopP,
	}
}

// ToInput maps the update request to the service-layer input.
func (dto GuruUpdateRequestDTO) ToInput() guru.UpdateInput {
	return guru.UpdateInput{
		Name:        dto.Name,
		Subject:     dto.Subject,
		Description: dto.Description,
		Avatar:      dto.Avatar,
		IsPublic:    dto.IsPublic,
		Tags:        dto.Tags,
		Model:       dto.Model,
		Temperature: dto.Temperature,
		MaxTokens:   dto.MaxTokens,
		TopP:        dto.TopP,
	}
}

// FromGuru maps a domain.Guru to GuruResponseDTO. viewerID identifies the
// requesting user so the response can say whether they liked the guru.
func FromGuru(g domain.Guru, viewerID uint) GuruResponseDTO {
	dto := GuruResponseDTO{
		ID:           g.ID,
		PublicID:     g.PublicID,
		UserID:       g.UserID,
		Name:         g.Name,
		Subject:      g.Subject,
		Description:  g.Description,
		SystemPrompt: g.SystemPrompt,
		Avatar:       g.Avatar,
		IsActive:     g.IsActive,
		IsPublic:     g.IsPublic,
		Settings: GuruSettingsDTO{
			Model:       g.Settings.Model,
			Temperature: g.Settings.Temperature,
			MaxTokens:   g.Settings.MaxTokens,
			TopP:        g.Settings.TopP,
		},
		Stats: GuruStatsDTO{
			TotalChats:    g.Stats.TotalChats,
			TotalMessages: g.Stats.TotalMessages,
		},
		Tags:      g.Tags,
		Likes:     g.Likes,
		LikedByMe: g.IsLikedBy(viewerID),
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.Format(time.RFC3339),
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if !g.Stats.LastUsed.IsZero() {
		dto.Stats.LastUsed = g.Stats.LastUsed.Format(time.RFC3339)
	}
	return dto
}

// FromGuruSlice maps a slice of domain.Guru to []GuruResponseDTO.
func FromGuruSlice(gurus []domain.Guru, viewerID uint) []GuruResponseDTO {
	out := make([]GuruResponseDTO, len(gurus))
	for i, g := range gurus {
		out[i] = FromGuru(g, viewerID)
	}
	return out
}
