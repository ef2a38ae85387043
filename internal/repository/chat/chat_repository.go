// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/uniguru/uniguru-server/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to chat")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if err := r.validateChatInput(chat); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		// Secure logging - no conversation content exposed
		log.Printf("[ChatRepository] Database error during chat creation for user ID %d: %v", chat.UserID, err)
		return nil, errors.New("database error creating chat")
	}

	log.Printf("[ChatRepository] Chat created successfully with ID: %d for user: %d", chat.ID, chat.UserID)
	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID uint) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, chatID).Error
	return r.handleFindError(err, &chat, "FindByID")
}

func (r *gormChatRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Chat, error) {
	if publicID == "" {
		return nil, errors.New("invalid chat public ID")
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&chat).Error
	return r.handleFindError(err, &chat, "FindByPublicID")
}

func (r *gormChatRepository) FindByUserID(ctx context.Context, userID uint, includeArchived bool) ([]domain.Chat, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var chats []domain.Chat
	err := query.Order("stat_last_activity DESC, id DESC").Find(&chats).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error finding chats for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching chats")
	}

	return chats, nil
}

func (r *gormChatRepository) FindActiveByUserAndGuru(ctx context.Context, userID, guruID uint) (*domain.Chat, error) {
	if userID == 0 || guruID == 0 {
		return nil, errors.New("invalid user ID or guru ID")
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND guru_id = ? AND is_active = ?", userID, guruID, true).
		Order("stat_last_activity DESC, id DESC").
		First(&chat).Error
	return r.handleFindError(err, &chat, "FindActiveByUserAndGuru")
}

func (r *gormChatRepository) Save(ctx context.Context, chat *domain.Chat) error {
	if chat == nil || chat.ID == 0 {
		return errors.New("invalid chat")
	}

	if err := r.validateChatInput(chat); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error saving chat ID %d: %v", chat.ID, err)
		return errors.New("database error saving chat")
	}

	return nil
}

func (r *gormChatRepository) ArchiveAllByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ? AND is_archived = ?", userID, false).
		UpdateColumns(map[string]interface{}{"is_archived": true, "is_active": false})
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error archiving chats for user ID %d: %v", userID, result.Error)
		return 0, errors.New("database error archiving chats")
	}

	log.Printf("[ChatRepository] Archived %d chats for user %d", result.RowsAffected, userID)
	return result.RowsAffected, nil
}

// ArchiveByGuruID archives the user's chats referencing a guru. Used when
// a guru is soft-deleted.
func (r *gormChatRepository) ArchiveByGuruID(ctx context.Context, userID, guruID uint) (int64, error) {
	if userID == 0 || guruID == 0 {
		return 0, errors.New("invalid user ID or guru ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("user_id = ? AND guru_id = ? AND is_archived = ?", userID, guruID, false).
		UpdateColumns(map[string]interface{}{"is_archived": true, "is_active": false})
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error archiving chats for guru ID %d: %v", guruID, result.Error)
		return 0, errors.New("database error archiving chats")
	}

	return result.RowsAffected, nil
}

// Delete permanently removes a chat. Ownership is enforced in the query
// so a non-owner delete affects zero rows.
func (r *gormChatRepository) Delete(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return errors.New("invalid chat ID or user ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", chatID, userID).
		Delete(&domain.Chat{})
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error deleting chat ID %d for user ID %d: %v", chatID, userID, result.Error)
		return errors.New("database error deleting chat")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}

	log.Printf("[ChatRepository] Chat deleted permanently: ID %d for user %d", chatID, userID)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.UserID == 0 {
		return errors.New("user ID is required")
	}
	if chat.GuruID == 0 {
		return errors.New("guru ID is required")
	}
	return r.validateChatTitle(chat.Title)
}

func (r *gormChatRepository) validateChatTitle(title string) error {
	if len(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	// Basic XSS protection
	if strings.Contains(title, "<script") || strings.Contains(title, "javascript:") {
		return errors.New("invalid characters detected in title")
	}
	return nil
}

func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	log.Printf("[ChatRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
