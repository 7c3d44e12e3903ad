package storage

import (
	"context"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockOrderStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockOrderStorage struct {
	CreateFunc          func(ctx context.Context, order *models.Order) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByCustomerIDFunc func(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error)
	ListFunc            func(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error)
	MethodTotalsFunc    func(ctx context.Context, filter models.OrderFilter) ([]models.MethodTotal, error)
	StatusCountsFunc    func(ctx context.Context, includeTrashed bool) (*models.OrderStatusCounts, error)
	UpdateTxFunc        func(ctx context.Context, tx pgx.Tx, id uuid.UUID, version int64, changes OrderChanges) error
	SetTrashedFunc      func(ctx context.Context, id uuid.UUID, trashed bool) error
	AddNoteFunc         func(ctx context.Context, id uuid.UUID, note models.StaffNote) ([]models.StaffNote, error)
}

func (m *MockOrderStorage) Create(ctx context.Context, order *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error) {
	if m.GetByCustomerIDFunc != nil {
		return m.GetByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockOrderStorage) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockOrderStorage) MethodTotals(ctx context.Context, filter models.OrderFilter) ([]models.MethodTotal, error) {
	if m.MethodTotalsFunc != nil {
		return m.MethodTotalsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockOrderStorage) StatusCounts(ctx context.Context, includeTrashed bool) (*models.OrderStatusCounts, error) {
	if m.StatusCountsFunc != nil {
		return m.StatusCountsFunc(ctx, includeTrashed)
	}
	return &models.OrderStatusCounts{}, nil
}

func (m *MockOrderStorage) UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, version int64, changes OrderChanges) error {
	if m.UpdateTxFunc != nil {
		return m.UpdateTxFunc(ctx, tx, id, version, changes)
	}
	return nil
}

func (m *MockOrderStorage) SetTrashed(ctx context.Context, id uuid.UUID, trashed bool) error {
	if m.SetTrashedFunc != nil {
		return m.SetTrashedFunc(ctx, id, trashed)
	}
	return nil
}

func (m *MockOrderStorage) AddNote(ctx context.Context, id uuid.UUID, note models.StaffNote) ([]models.StaffNote, error) {
	if m.AddNoteFunc != nil {
		return m.AddNoteFunc(ctx, id, note)
	}
	return nil, nil
}
