package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// UserService manages staff accounts and login.
type UserService interface {
	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)

	// Create hashes the password and stores a new account. A duplicate
	// email surfaces as apperrors.ErrConflict.
	Create(ctx context.Context, user *models.User, password string) error

	GetByID(ctx context.Context, userID int64) (*models.User, error)
	List(ctx context.Context, skip int) ([]*models.User, error)
}

type userService struct {
	users repositories.UserRepository
	auth  *auth.Service
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, authService *auth.Service) UserService {
	return &userService{users: users, auth: authService}
}

var _ UserService = (*userService)(nil)

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrUnauthorized
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)); err != nil {
		return "", apperrors.ErrUnauthorized
	}

	token, err := s.auth.CreateAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, nil
}

func (s *userService) Create(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.EncryptedPassword = string(hash)
	return s.users.Create(ctx, user)
}

func (s *userService) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *userService) List(ctx context.Context, skip int) ([]*models.User, error) {
	return s.users.List(ctx, skip)
}
