package chat

import (
	"context"

	"github.com/uniguru/uniguru-server/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id uint) (*domain.Chat, error)
	FindByPublicID(ctx context.Context, publicID string) (*domain.Chat, error)
	FindByUserID(ctx context.Context, userID uint, includeArchived bool) ([]domain.Chat, error)
	// FindActiveByUserAndGuru returns the most recently active chat for the
	// user+guru pair, or ErrChatNotFound when none exists.
	FindActiveByUserAndGuru(ctx context.Context, userID, guruID uint) (*domain.Chat, error)
	Save(ctx context.Context, chat *domain.Chat) error
	ArchiveAllByUserID(ctx context.Context, userID uint) (int64, error)
	ArchiveByGuruID(ctx context.Context, userID, guruID uint) (int64, error)
	Delete(ctx context.Context, chatID, userID uint) error
}
