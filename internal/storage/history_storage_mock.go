package storage

import (
	"context"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockHistoryStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockHistoryStorage struct {
	CreateFunc       func(ctx context.Context, change *models.StatusChange) error
	CreateTxFunc     func(ctx context.Context, tx pgx.Tx, change *models.StatusChange) error
	GetByOrderIDFunc func(ctx context.Context, orderID uuid.UUID) ([]*models.StatusChange, error)
}

func (m *MockHistoryStorage) Create(ctx context.Context, change *models.StatusChange) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, change)
	}
	return nil
}

func (m *MockHistoryStorage) CreateTx(ctx context.Context, tx pgx.Tx, change *models.StatusChange) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, change)
	}
	return nil
}

func (m *MockHistoryStorage) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.StatusChange, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}
