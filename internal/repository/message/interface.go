package message

import (
	"context"

	"github.com/uniguru/uniguru-server/internal/domain"
)

// MessageRepository handles message data operations. Messages belong to
// exactly one chat and have no lifecycle of their own.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	// FindByChatID returns every message in the chat, oldest first.
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	// FindRecent returns the newest limit messages, still oldest first.
	FindRecent(ctx context.Context, chatID uint, limit int) ([]domain.Message, error)
	CountByChatID(ctx context.Context, chatID uint) (int64, error)
	SumTokensByChatID(ctx context.Context, chatID uint) (int64, error)
	DeleteByChatID(ctx context.Context, chatID uint) error
}
