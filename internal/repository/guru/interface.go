package guru

import (
	"context"

	"github.com/uniguru/uniguru-server/internal/domain"
)

// GuruRepository handles guru persona data operations.
type GuruRepository interface {
	Create(ctx context.Context, guru *domain.Guru) (*domain.Guru, error)
	FindByID(ctx context.Context, id uint) (*domain.Guru, error)
	FindByPublicID(ctx context.Context, publicID string) (*domain.Guru, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Guru, error)
	FindVisibleToUser(ctx context.Context, userID uint) ([]domain.Guru, error)
	Save(ctx context.Context, guru *domain.Guru) error
	// UpdateUsageStats stamps last-used (and optionally bumps the message
	// counter) with a column-only write, so a stat bump never fails on
	// unrelated field validation.
	UpdateUsageStats(ctx context.Context, guruID uint, incrementMessages bool) error
	// IncrementChatCount bumps the total-chats counter, same column-only
	// semantics as UpdateUsageStats.
	IncrementChatCount(ctx context.Context, guruID uint) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}
