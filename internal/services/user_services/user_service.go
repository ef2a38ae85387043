// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"

	"github.com/uniguru/uniguru-server/internal/domain"
	"github.com/uniguru/uniguru-server/internal/repository/user"
)

// UserService composes the user-facing account services.
type UserService struct {
	*AuthService
	userRepo user.UserRepository
}

func NewUserService(userRepo user.UserRepository, jwtSecret string, logger Logger) *UserService {
	return &UserService{
		AuthService: NewAuthService(userRepo, jwtSecret, logger),
		userRepo:    userRepo,
	}
}

// GetProfile returns the account record for an authenticated user.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
