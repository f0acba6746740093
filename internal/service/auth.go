package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"userapi/internal/repository"

	"go.uber.org/zap"
)

// ErrInvalidCredentials covers every login failure: unknown email, wrong
// password and disabled account all look the same to the caller, so the
// response never reveals which factor failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	repo   repository.UserRepository
	hasher *PasswordHasher
	tokens *TokenService
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, hasher *PasswordHasher, tokens *TokenService, logger *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies the credential pair against the stored record and issues a
// bearer token on success. Read-only: no lockout or attempt tracking.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user.Disabled {
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("email", user.Email))
	return tokenString, nil
}
