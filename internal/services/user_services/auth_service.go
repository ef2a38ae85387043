// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/uniguru/uniguru-server/internal/auth"
	"github.com/uniguru/uniguru-server/internal/domain"
	"github.com/uniguru/uniguru-server/internal/repository/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already registered")
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register creates an account and returns the persisted user.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	newUser := &domain.User{Username: username, Email: email}
	if err := newUser.IsValid(); err != nil {
		return nil, err
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, err
	}

	if existing, _ := s.userRepo.FindByUsernameOrEmail(ctx, username, email); existing != nil {
		s.logger.Warn("registration rejected - duplicate identity",
			"username", mask(username))
		return nil, ErrUserExists
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		s.logger.Error("user creation failed", "username", mask(username), "error", err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID, "username", mask(username))
	return created, nil
}

// Login authenticates by username or email and returns the user and a
// signed JWT.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	if identifier == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByUsername(ctx, identifier)
	if err != nil {
		u, err = s.userRepo.FindByEmail(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		s.logger.Warn("login failed - user not found", "identifier", mask(identifier))
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", u.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, []byte(s.jwtSecretKey))
	if err != nil {
		s.logger.Error("JWT token generation failed", "user_id", u.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", u.ID)
	return u, token, nil
}

// ValidateJWTToken resolves a token to the user ID it was issued for.
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	return auth.ValidateToken(tokenString, []byte(s.jwtSecretKey))
}
