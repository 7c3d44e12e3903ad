package storage

import (
	"context"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
)

// MockShipmentStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockShipmentStorage struct {
	UpsertFunc               func(ctx context.Context, shipment *models.Shipment) error
	GetByOrderIDFunc         func(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error)
	GetOpenFunc              func(ctx context.Context) ([]*models.Shipment, error)
	UpdateDeliveryStatusFunc func(ctx context.Context, id uuid.UUID, status models.DeliveryStatus, actualDelivery *time.Time) error
}

func (m *MockShipmentStorage) Upsert(ctx context.Context, shipment *models.Shipment) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, shipment)
	}
	return nil
}

func (m *MockShipmentStorage) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, ErrShipmentNotFound
}

func (m *MockShipmentStorage) GetOpen(ctx context.Context) ([]*models.Shipment, error) {
	if m.GetOpenFunc != nil {
		return m.GetOpenFunc(ctx)
	}
	return nil, nil
}

func (m *MockShipmentStorage) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status models.DeliveryStatus, actualDelivery *time.Time) error {
	if m.UpdateDeliveryStatusFunc != nil {
		return m.UpdateDeliveryStatusFunc(ctx, id, status, actualDelivery)
	}
	return nil
}
