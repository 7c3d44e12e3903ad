package storage

import (
	"context"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
)

// MockAdminStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockAdminStorage struct {
	CreateFunc     func(ctx context.Context, admin *models.Admin) error
	GetByEmailFunc func(ctx context.Context, email string) (*models.Admin, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.Admin, error)
}

func (m *MockAdminStorage) Create(ctx context.Context, admin *models.Admin) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return nil
}

func (m *MockAdminStorage) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrAdminNotFound
}

func (m *MockAdminStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrAdminNotFound
}
