// File: internal/domain/message.go
package domain

import "time"

// Message senders.
const (
	SenderUser = "user"
	SenderGuru = "guru"
)

// Message is a single entry in a chat. It has no lifecycle outside its
// chat: appended through the chat service, removed only when the chat is
// cleared or hard-deleted.
type Message struct {
	ID      uint   `json:"id" gorm:"primarykey"`
	ChatID  uint   `json:"chat_id" gorm:"not null;index"`
	Sender  string `json:"sender" gorm:"size:10;not null"` // "user" or "guru"
	Content string `json:"content" gorm:"type:text;not null"`
	// Optional generation metadata, set for guru replies.
	Model          string        `json:"model,omitempty" gorm:"size:100"`
	Tokens         int           `json:"tokens,omitempty"`
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	Error          string        `json:"error,omitempty" gorm:"size:500"`
	CreatedAt      time.Time     `json:"created_at"`
}
