// File: internal/repository/guru/guru_repository.go
package guru

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/uniguru/uniguru-server/internal/domain"
)

var ErrGuruNotFound = errors.New("guru not found")

type gormGuruRepository struct {
	db *gorm.DB
}

func NewGuruRepository(db *gorm.DB) GuruRepository {
	return &gormGuruRepository{db: db}
}

func (r *gormGuruRepository) Create(ctx context.Context, guru *domain.Guru) (*domain.Guru, error) {
	if err := r.validateGuruInput(guru); err != nil {
		log.Printf("[GuruRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(guru).Error; err != nil {
		log.Printf("[GuruRepository] Database error during guru creation for user ID %d: %v", guru.UserID, err)
		return nil, errors.New("database error creating guru")
	}

	log.Printf("[GuruRepository] Guru created successfully with ID: %d for user: %d", guru.ID, guru.UserID)
	return guru, nil
}

func (r *gormGuruRepository) FindByID(ctx context.Context, id uint) (*domain.Guru, error) {
	if id == 0 {
		return nil, errors.New("invalid guru ID")
	}

	var guru domain.Guru
	err := r.db.WithContext(ctx).First(&guru, id).Error
	return r.handleFindError(err, &guru, "FindByID")
}

func (r *gormGuruRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Guru, error) {
	if publicID == "" {
		return nil, errors.New("invalid guru public ID")
	}

	var guru domain.Guru
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&guru).Error
	return r.handleFindError(err, &guru, "FindByPublicID")
}

// FindByUserID returns the user's own gurus, active first, newest first.
func (r *gormGuruRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Guru, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var gurus []domain.Guru
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_active DESC, created_at DESC").
		Find(&gurus).Error
	if err != nil {
		log.Printf("[GuruRepository] Database error finding gurus for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching gurus")
	}

	return gurus, nil
}

// FindVisibleToUser returns active gurus readable by the user: their own
// plus everyone's public ones.
func (r *gormGuruRepository) FindVisibleToUser(ctx context.Context, userID uint) ([]domain.Guru, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var gurus []domain.Guru
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("user_id = ? OR is_public = ?", userID, true).
		Order("created_at DESC").
		Find(&gurus).Error
	if err != nil {
		log.Printf("[GuruRepository] Database error finding visible gurus for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching gurus")
	}

	return gurus, nil
}

func (r *gormGuruRepository) Save(ctx context.Context, guru *domain.Guru) error {
	if guru == nil || guru.ID == 0 {
		return errors.New("invalid guru")
	}

	if err := r.validateGuruInput(guru); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(guru).Error; err != nil {
		log.Printf("[GuruRepository] Database error saving guru ID %d: %v", guru.ID, err)
		return errors.New("database error saving guru")
	}

	return nil
}

func (r *gormGuruRepository) UpdateUsageStats(ctx context.Context, guruID uint, incrementMessages bool) error {
	if guruID == 0 {
		return errors.New("invalid guru ID")
	}

	columns := map[string]interface{}{"stat_last_used": time.Now()}
	if incrementMessages {
		columns["stat_total_messages"] = gorm.Expr("stat_total_messages + 1")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Guru{}).
		Where("id = ?", guruID).
		UpdateColumns(columns)
	if result.Error != nil {
		log.Printf("[GuruRepository] Database error updating usage stats for guru ID %d: %v", guruID, result.Error)
		return errors.New("database error updating guru stats")
	}
	if result.RowsAffected == 0 {
		return ErrGuruNotFound
	}

	return nil
}

func (r *gormGuruRepository) IncrementChatCount(ctx context.Context, guruID uint) error {
	if guruID == 0 {
		return errors.New("invalid guru ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Guru{}).
		Where("id = ?", guruID).
		UpdateColumns(map[string]interface{}{
			"stat_total_chats": gorm.Expr("stat_total_chats + 1"),
			"stat_last_used":   time.Now(),
		})
	if result.Error != nil {
		log.Printf("[GuruRepository] Database error incrementing chat count for guru ID %d: %v", guruID, result.Error)
		return errors.New("database error updating guru stats")
	}
	if result.RowsAffected == 0 {
		return ErrGuruNotFound
	}

	return nil
}

func (r *gormGuruRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Guru{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[GuruRepository] Database error counting gurus for user ID %d: %v", userID, err)
		return 0, errors.New("database error counting gurus")
	}

	return count, nil
}

// ===== VALIDATION HELPERS =====

func (r *gormGuruRepository) validateGuruInput(guru *domain.Guru) error {
	if guru == nil {
		return errors.New("guru cannot be nil")
	}
	if guru.UserID == 0 {
		return errors.New("user ID is required")
	}
	if name := strings.TrimSpace(guru.Name); len(name) == 0 || len(name) > 100 {
		return errors.New("name must be between 1 and 100 characters")
	}
	if subject := strings.TrimSpace(guru.Subject); len(subject) == 0 || len(subject) > 100 {
		return errors.New("subject must be between 1 and 100 characters")
	}
	if len(guru.Description) > 500 {
		return errors.New("description must be 500 characters or less")
	}
	return nil
}

func (r *gormGuruRepository) handleFindError(err error, guru *domain.Guru, operation string) (*domain.Guru, error) {
	if err == nil {
		return guru, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGuruNotFound
	}
	log.Printf("[GuruRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
