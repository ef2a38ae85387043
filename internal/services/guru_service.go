// File: internal/services/guru_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/uniguru/uniguru-server/internal/domain"
	chatrepo "github.com/uniguru/uniguru-server/internal/repository/chat"
	gururepo "github.com/uniguru/uniguru-server/internal/repository/guru"
	guruservice "github.com/uniguru/uniguru-server/internal/services/guru"
)

// GuruService owns the guru aggregate: persona creation, prompt
// regeneration, usage stats, likes, and the ownership/visibility rules
// gating every access.
type GuruService struct {
	config   *guruservice.Config
	guruRepo gururepo.GuruRepository
	chatRepo chatrepo.ChatRepository
	logger   Logger
}

func NewGuruService(guruRepo gururepo.GuruRepository, chatRepo chatrepo.ChatRepository, logger Logger) (*GuruService, error) {
	if guruRepo == nil {
		return nil, guruservice.NewValidationError("constructor", "guru repository is required")
	}
	if chatRepo == nil {
		return nil, guruservice.NewValidationError("constructor", "chat repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	config := guruservice.DefaultConfig()
	if err := config.Validate(); err != nil {
		return nil, guruservice.NewValidationError("config", err.Error())
	}

	return &GuruService{
		config:   config,
		guruRepo: guruRepo,
		chatRepo: chatRepo,
		logger:   logger,
	}, nil
}

// CreateGuru builds a new persona for the user. The system prompt is
// derived from name/subject/description, never supplied by the caller.
func (s *GuruService) CreateGuru(ctx context.Context, userID uint, input guruservice.CreateInput) (*domain.Guru, error) {
	name := strings.TrimSpace(input.Name)
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)

	if err := s.validateNameAndSubject(name, subject); err != nil {
		return nil, err
	}
	if len(description) > s.config.MaxDescription {
		return nil, guruservice.NewValidationError("create_guru", "description must be 500 characters or less")
	}
	if err := s.validateTags(input.Tags); err != nil {
		return nil, err
	}

	count, err := s.guruRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, guruservice.NewDependencyError("create_guru", "could not count gurus", err)
	}
	if count >= int64(s.config.MaxGurusPerUser) {
		return nil, guruservice.NewValidationError("create_guru", "guru limit reached for this account")
	}

	settings := domain.GuruSettings{
		Model:       s.config.DefaultModel,
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        1,
	}
	if err := s.applySettings(&settings, input.Model, input.Temperature, input.MaxTokens, input.TopP); err != nil {
		return nil, err
	}

	newGuru := &domain.Guru{
		UserID:       userID,
		Name:         name,
		Subject:      subject,
		Description:  description,
		SystemPrompt: guruservice.BuildSystemPrompt(name, subject, description),
		Avatar:       input.Avatar,
		IsActive:     true,
		IsPublic:     input.IsPublic,
		Settings:     settings,
		Tags:         input.Tags,
	}

	created, err := s.guruRepo.Create(ctx, newGuru)
	if err != nil {
		return nil, guruservice.NewDependencyError("create_guru", "could not create guru", err)
	}

	s.logger.Info("guru created", "guru_id", created.ID, "user_id", userID, "subject", subject)
	return created, nil
}

// GetGuru enforces the read rule: the owner always, anyone else only
// when the guru is public.
func (s *GuruService) GetGuru(ctx context.Context, userID, guruID uint) (*domain.Guru, error) {
	return s.authorizeRead(ctx, userID, guruID)
}

// ListOwnGurus returns the user's gurus including inactive ones.
func (s *GuruService) ListOwnGurus(ctx context.Context, userID uint) ([]domain.Guru, error) {
	gurus, err := s.guruRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, guruservice.NewDependencyError("list_gurus", "could not list gurus", err)
	}
	return gurus, nil
}

// ListVisibleGurus returns active gurus the user may start chats with:
// their own plus public ones.
func (s *GuruService) ListVisibleGurus(ctx context.Context, userID uint) ([]domain.Guru, error) {
	gurus, err := s.guruRepo.FindVisibleToUser(ctx, userID)
	if err != nil {
		return nil, guruservice.NewDependencyError("list_gurus", "could not list gurus", err)
	}
	return gurus, nil
}

// UpdateGuru applies a typed partial update. Mutation always requires
// strict ownership, public flag notwithstanding. The system prompt is
// regenerated iff name, subject, or description changed.
func (s *GuruService) UpdateGuru(ctx context.Context, userID, guruID uint, input guruservice.UpdateInput) (*domain.Guru, error) {
	g, err := s.authorizeOwner(ctx, userID, guruID, "update_guru")
	if err != nil {
		return nil, err
	}
	if input.Empty() {
		return g, nil
	}

	identityChanged := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != g.Name {
			g.Name = name
			identityChanged = true
		}
	}
	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject != g.Subject {
			g.Subject = subject
			identityChanged = true
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description != g.Description {
			g.Description = description
			identityChanged = true
		}
	}
	if err := s.validateNameAndSubject(g.Name, g.Subject); err != nil {
		return nil, err
	}
	if len(g.Description) > s.config.MaxDescription {
		return nil, guruservice.NewValidationError("update_guru", "description must be 500 characters or less")
	}

	if input.Avatar != nil {
		g.Avatar = *input.Avatar
	}
	if input.IsPublic != nil {
		g.IsPublic = *input.IsPublic
	}
	if input.Tags != nil {
		if err := s.validateTags(*input.Tags); err != nil {
			return nil, err
		}
		g.Tags = *input.Tags
	}
	if err := s.applySettings(&g.Settings, input.Model, input.Temperature, input.MaxTokens, input.TopP); err != nil {
		return nil, err
	}

	// The prompt is a pure function of the three identity fields; a save
	// that does not touch them leaves it alone.
	if identityChanged {
		g.SystemPrompt = guruservice.BuildSystemPrompt(g.Name, g.Subject, g.Description)
	}

	if err := s.guruRepo.Save(ctx, g); err != nil {
		return nil, guruservice.NewDependencyError("update_guru", "could not save guru", err)
	}

	return g, nil
}

// ToggleLike flips the user's like on a guru: each call inverts the
// previous state. Likes never go below zero.
func (s *GuruService) ToggleLike(ctx context.Context, userID, guruID uint) (*domain.Guru, error) {
	g, err := s.authorizeRead(ctx, userID, guruID)
	if err != nil {
		return nil, err
	}

	if g.IsLikedBy(userID) {
		next := make([]uint, 0, len(g.LikedBy)-1)
		for _, id := range g.LikedBy {
			if id != userID {
				next = append(next, id)
			}
		}
		g.LikedBy = next
		if g.Likes > 0 {
			g.Likes--
		}
	} else {
		g.LikedBy = append(g.LikedBy, userID)
		g.Likes++
	}

	if err := s.guruRepo.Save(ctx, g); err != nil {
		return nil, guruservice.NewDependencyError("toggle_like", "could not save guru", err)
	}

	return g, nil
}

// RecordUsage stamps last-used and optionally bumps the message counter.
// Column-only write: a stat bump never fails on unrelated validation.
func (s *GuruService) RecordUsage(ctx context.Context, guruID uint, incrementMessages bool) error {
	if err := s.guruRepo.UpdateUsageStats(ctx, guruID, incrementMessages); err != nil {
		// Stats are best-effort bookkeeping; the chat flow must not fail on
		// a stat write.
		s.logger.Warn("guru usage stat update failed", "guru_id", guruID, "error", err)
		return guruservice.NewDependencyError("record_usage", "could not update guru stats", err)
	}
	return nil
}

// SoftDeleteGuru deactivates the guru and archives the owner's chats
// that reference it. Message data is retained.
func (s *GuruService) SoftDeleteGuru(ctx context.Context, userID, guruID uint) error {
	g, err := s.authorizeOwner(ctx, userID, guruID, "delete_guru")
	if err != nil {
		return err
	}

	g.IsActive = false
	if err := s.guruRepo.Save(ctx, g); err != nil {
		return guruservice.NewDependencyError("delete_guru", "could not deactivate guru", err)
	}

	archived, err := s.chatRepo.ArchiveByGuruID(ctx, userID, guruID)
	if err != nil {
		return guruservice.NewDependencyError("delete_guru", "could not archive chats", err)
	}

	s.logger.Info("guru soft-deleted", "guru_id", guruID, "user_id", userID, "chats_archived", archived)
	return nil
}

// AuthorizeUse is the rule every chat entry point applies before
// touching a guru: it must exist, be active, and be owned by the
// requester or public.
func (s *GuruService) AuthorizeUse(ctx context.Context, userID, guruID uint) (*domain.Guru, error) {
	g, err := s.authorizeRead(ctx, userID, guruID)
	if err != nil {
		return nil, err
	}
	if !g.IsActive {
		return nil, guruservice.NewNotFoundError("authorize_use", guruID)
	}
	return g, nil
}

// ===== AUTHORIZATION HELPERS =====

func (s *GuruService) authorizeRead(ctx context.Context, userID, guruID uint) (*domain.Guru, error) {
	g, err := s.guruRepo.FindByID(ctx, guruID)
	if err != nil {
		if errors.Is(err, gururepo.ErrGuruNotFound) {
			return nil, guruservice.NewNotFoundError("find_guru", guruID)
		}
		return nil, guruservice.NewDependencyError("find_guru", "could not load guru", err)
	}
	if g.UserID != userID && !g.IsPublic {
		return nil, guruservice.NewUnauthorizedError("read_guru", userID, guruID)
	}
	return g, nil
}

func (s *GuruService) authorizeOwner(ctx context.Context, userID, guruID uint, operation string) (*domain.Guru, error) {
	g, err := s.guruRepo.FindByID(ctx, guruID)
	if err != nil {
		if errors.Is(err, gururepo.ErrGuruNotFound) {
			return nil, guruservice.NewNotFoundError(operation, guruID)
		}
		return nil, guruservice.NewDependencyError(operation, "could not load guru", err)
	}
	if g.UserID != userID {
		return nil, guruservice.NewUnauthorizedError(operation, userID, guruID)
	}
	return g, nil
}

// ===== VALIDATION HELPERS =====

func (s *GuruService) validateNameAndSubject(name, subject string) error {
	if len(name) < s.config.MinNameLength || len(name) > s.config.MaxNameLength {
		return guruservice.NewValidationError("validate", "name must be between 2 and 100 characters")
	}
	if len(subject) < s.config.MinNameLength || len(subject) > s.config.MaxNameLength {
		return guruservice.NewValidationError("validate", "subject must be between 2 and 100 characters")
	}
	return nil
}

func (s *GuruService) validateTags(tags []string) error {
	for _, tag := range tags {
		if tag == "" || len(tag) > s.config.MaxTagLength {
			return guruservice.NewValidationError("validate", "tags must be between 1 and 30 characters")
		}
	}
	return nil
}

func (s *GuruService) applySettings(settings *domain.GuruSettings, model *string, temperature *float32, maxTokens *int, topP *float32) error {
	if model != nil {
		if !s.config.ModelAllowed(*model) {
			return guruservice.NewValidationError("validate", "model is not in the allowed set")
		}
		settings.Model = *model
	}
	if temperature != nil {
		if *temperature < 0 || *temperature > 2 {
			return guruservice.NewValidationError("validate", "temperature must be between 0 and 2")
		}
		settings.Temperature = *temperature
	}
	if maxTokens != nil {
		if *maxTokens < 1 || *maxTokens > 4096 {
			return guruservice.NewValidationError("validate", "maxTokens must be between 1 and 4096")
		}
		settings.MaxTokens = *maxTokens
	}
	if topP != nil {
		if *topP < 0 || *topP > 1 {
			return guruservice.NewValidationError("validate", "topP must be between 0 and 1")
		}
		settings.TopP = *topP
	}
	return nil
}
