// File: internal/domain/guru.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GuruSettings holds the per-persona model parameters used for every
// completion answered by this guru.
type GuruSettings struct {
	Model       string  `json:"model" gorm:"default:llama3-8b-8192"`
	Temperature float32 `json:"temperature" gorm:"default:0.7"`
	MaxTokens   int     `json:"maxTokens" gorm:"default:1024"`
	TopP        float32 `json:"topP" gorm:"default:1"`
}

// GuruStats tracks usage. Updated via column-only writes so a stat bump
// never fails on unrelated validation.
type GuruStats struct {
	TotalChats    int       `json:"totalChats"`
	TotalMessages int       `json:"totalMessages"`
	LastUsed      time.Time `json:"lastUsed"`
}

// Guru is a configurable persona: a generated system prompt plus model
// settings, owned by a user and referenced by chats.
type Guru struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	PublicID    string    `json:"public_id" gorm:"size:36;uniqueIndex"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Subject     string    `json:"subject" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:500"`
	// SystemPrompt is always derived from Name/Subject/Description at save
	// time. It is never edited independently.
	SystemPrompt string                     `json:"system_prompt" gorm:"type:text"`
	Avatar       string                     `json:"avatar" gorm:"size:500"`
	IsActive     bool                       `json:"is_active" gorm:"default:true"`
	IsPublic     bool                       `json:"is_public" gorm:"default:false"`
	Settings     GuruSettings               `json:"settings" gorm:"embedded;embeddedPrefix:setting_"`
	Stats        GuruStats                  `json:"stats" gorm:"embedded;embeddedPrefix:stat_"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Likes        int                        `json:"likes" gorm:"default:0"`
	LikedBy      datatypes.JSONSlice[uint]  `json:"liked_by"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func (g *Guru) BeforeCreate(tx *gorm.DB) error {
	if g.PublicID == "" {
		g.PublicID = uuid.NewString()
	}
	return nil
}

// IsLikedBy reports whether userID is in the liked-by set.
func (g *Guru) IsLikedBy(userID uint) bool {
	for _, id := range g.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
