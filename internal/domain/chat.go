// File: internal/domain/chat.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Share permissions for chats listed in SharedWith.
const (
	SharePermissionRead  = "read"
	SharePermissionWrite = "write"
)

// ChatSettings toggles per-chat behavior.
type ChatSettings struct {
	AutoTitle   bool `json:"autoTitle" gorm:"default:true"`
	SaveHistory bool `json:"saveHistory" gorm:"default:true"`
}

// ChatStats are derived from the message sequence and must never drift
// from it: the chat service recomputes MessageCount and TotalTokens on
// every message mutation.
type ChatStats struct {
	MessageCount int        `json:"messageCount"`
	TotalTokens  int        `json:"totalTokens"`
	LastActivity time.Time  `json:"lastActivity"`
	LastRename   *time.Time `json:"lastRename,omitempty"`
	RenameCount  int        `json:"renameCount"`
}

// SharedEntry grants another user read or write access to a chat.
type SharedEntry struct {
	UserID     uint      `json:"user_id"`
	Permission string    `json:"permission"`
	SharedAt   time.Time `json:"shared_at"`
}

// Chat is a conversation thread between one user and one guru.
type Chat struct {
	ID         uint                             `json:"id" gorm:"primarykey"`
	PublicID   string                           `json:"public_id" gorm:"size:36;uniqueIndex"`
	UserID     uint                             `json:"user_id" gorm:"not null;index"`
	GuruID     uint                             `json:"guru_id" gorm:"not null;index"`
	Title      string                           `json:"title" gorm:"size:200"`
	IsActive   bool                             `json:"is_active" gorm:"default:true"`
	IsArchived bool                             `json:"is_archived" gorm:"default:false"`
	IsPublic   bool                             `json:"is_public" gorm:"default:false"`
	Settings   ChatSettings                     `json:"settings" gorm:"embedded;embeddedPrefix:setting_"`
	Stats      ChatStats                        `json:"stats" gorm:"embedded;embeddedPrefix:stat_"`
	Tags       datatypes.JSONSlice[string]      `json:"tags"`
	SharedWith datatypes.JSONSlice[SharedEntry] `json:"shared_with"`
	CreatedAt  time.Time                        `json:"created_at"`
	UpdatedAt  time.Time                        `json:"updated_at"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.PublicID == "" {
		c.PublicID = uuid.NewString()
	}
	return nil
}

// SharedPermission returns the permission granted to userID, or "" when
// the chat is not shared with them.
func (c *Chat) SharedPermission(userID uint) string {
	for _, entry := range c.SharedWith {
		if entry.UserID == userID {
			return entry.Permission
		}
	}
	return ""
}

// CanRead reports whether userID may read this chat: the owner, anyone
// when the chat is public, or a user it has been shared with.
func (c *Chat) CanRead(userID uint) bool {
	if c.UserID == userID || c.IsPublic {
		return true
	}
	return c.SharedPermission(userID) != ""
}

// CanWrite reports whether userID may append messages: the owner, or a
// shared user holding write permission.
func (c *Chat) CanWrite(userID uint) bool {
	return c.UserID == userID || c.SharedPermission(userID) == SharePermissionWrite
}
