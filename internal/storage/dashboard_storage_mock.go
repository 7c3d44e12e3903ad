package storage

import (
	"context"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/shopspring/decimal"
)

// MockDashboardStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockDashboardStorage struct {
	CountAllFunc               func(ctx context.Context) (int64, error)
	StatusAggregateFunc        func(ctx context.Context, status models.OrderStatus) (*models.StatusAggregate, error)
	StatusCountsDetailedFunc   func(ctx context.Context, includeTrashed bool) (map[models.OrderStatus]int64, error)
	TotalAmountFunc            func(ctx context.Context) (decimal.Decimal, error)
	DeliveredAmountBetweenFunc func(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	RecentActiveFunc           func(ctx context.Context, page, limit int) ([]*models.Order, int64, error)
	BestSellersFunc            func(ctx context.Context, limit int) ([]models.BestSeller, error)
	DeliveredSinceFunc         func(ctx context.Context, since time.Time) ([]*models.Order, error)
}

func (m *MockDashboardStorage) CountAll(ctx context.Context) (int64, error) {
	if m.CountAllFunc != nil {
		return m.CountAllFunc(ctx)
	}
	return 0, nil
}

func (m *MockDashboardStorage) StatusAggregate(ctx context.Context, status models.OrderStatus) (*models.StatusAggregate, error) {
	if m.StatusAggregateFunc != nil {
		return m.StatusAggregateFunc(ctx, status)
	}
	return &models.StatusAggregate{Total: decimal.Zero}, nil
}

func (m *MockDashboardStorage) StatusCountsDetailed(ctx context.Context, includeTrashed bool) (map[models.OrderStatus]int64, error) {
	if m.StatusCountsDetailedFunc != nil {
		return m.StatusCountsDetailedFunc(ctx, includeTrashed)
	}
	return map[models.OrderStatus]int64{}, nil
}

func (m *MockDashboardStorage) TotalAmount(ctx context.Context) (decimal.Decimal, error) {
	if m.TotalAmountFunc != nil {
		return m.TotalAmountFunc(ctx)
	}
	return decimal.Zero, nil
}

func (m *MockDashboardStorage) DeliveredAmountBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	if m.DeliveredAmountBetweenFunc != nil {
		return m.DeliveredAmountBetweenFunc(ctx, from, to)
	}
	return decimal.Zero, nil
}

func (m *MockDashboardStorage) RecentActive(ctx context.Context, page, limit int) ([]*models.Order, int64, error) {
	if m.RecentActiveFunc != nil {
		return m.RecentActiveFunc(ctx, page, limit)
	}
	return nil, 0, nil
}

func (m *MockDashboardStorage) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	if m.BestSellersFunc != nil {
		return m.BestSellersFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockDashboardStorage) DeliveredSince(ctx context.Context, since time.Time) ([]*models.Order, error) {
	if m.DeliveredSinceFunc != nil {
		return m.DeliveredSinceFunc(ctx, since)
	}
	return nil, nil
}
