package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/orderdesk/internal/auth"
	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("email and password are required")
)

// AdminService определяет интерфейс для работы с администраторами.
type AdminService interface {
	Register(ctx context.Context, name, email, password string) (*models.Admin, string, error)
	Login(ctx context.Context, email, password string) (*models.Admin, string, error)
}

// AdminServiceImpl реализует AdminService.
type AdminServiceImpl struct {
	adminStorage    storage.AdminStorage
	jwtSecret       string
	tokenExpiration time.Duration
}

// NewAdminService создаёт новый экземпляр AdminService.
func NewAdminService(adminStorage storage.AdminStorage, jwtSecret string, tokenExpiration time.Duration) *AdminServiceImpl {
	return &AdminServiceImpl{
		adminStorage:    adminStorage,
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
	}
}

// Register регистрирует нового администратора.
func (s *AdminServiceImpl) Register(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.adminStorage.Create(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, "", storage.ErrEmailExists
		}
		return nil, "", fmt.Errorf("failed to create admin: %w", err)
	}

	token, err := auth.GenerateToken(admin, s.jwtSecret, s.tokenExpiration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return admin, token, nil
}

// Login аутентифицирует администратора.
func (s *AdminServiceImpl) Login(ctx context.Context, email, password string) (*models.Admin, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}

	admin, err := s.adminStorage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get admin: %w", err)
	}

	if !auth.CheckPassword(password, admin.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(admin, s.jwtSecret, s.tokenExpiration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return admin, token, nil
}
