package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"userapi/internal/models"
	"userapi/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken   = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
)

type UserService interface {
	Create(ctx context.Context, username, email, password string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	Disable(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo   repository.UserRepository
	hasher *PasswordHasher
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, hasher *PasswordHasher, logger *zap.Logger) UserService {
	return &userService{repo: repo, hasher: hasher, logger: logger}
}

func (s *userService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	count, err := s.repo.CountByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to count users by email", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by id", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, username, email string) error {
	if err := s.repo.UpdateProfile(ctx, id, username, email); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdatePassword stores a fresh hash for the user. Setting a new password
// also lifts a soft-disable. Outstanding tokens are not invalidated.
func (s *userService) UpdatePassword(ctx context.Context, id int64, password string) error {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, passwordHash); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Disable blocks all future logins for the account without deleting it.
func (s *userService) Disable(ctx context.Context, id int64) error {
	if err := s.repo.Disable(ctx, id); err != nil {
		s.logger.Error("Failed to disable user", zap.Error(err))
		return fmt.Errorf("failed to disable user: %w", err)
	}
	s.logger.Info("User login disabled.", zap.Int64("id", id))
	return nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
