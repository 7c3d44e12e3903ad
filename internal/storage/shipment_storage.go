package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrShipmentNotFound = errors.New("shipment not found")

// ShipmentStorage определяет интерфейс для работы с отгрузками.
type ShipmentStorage interface {
	Upsert(ctx context.Context, shipment *models.Shipment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error)
	GetOpen(ctx context.Context) ([]*models.Shipment, error)
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status models.DeliveryStatus, actualDelivery *time.Time) error
}

// PostgresShipmentStorage реализует ShipmentStorage для PostgreSQL.
type PostgresShipmentStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresShipmentStorage создаёт новый экземпляр PostgresShipmentStorage.
func NewPostgresShipmentStorage(pool *pgxpool.Pool) *PostgresShipmentStorage {
	return &PostgresShipmentStorage{pool: pool}
}

// Upsert создаёт или обновляет отгрузку заказа (отгрузка 1:1 с заказом).
func (s *PostgresShipmentStorage) Upsert(ctx context.Context, shipment *models.Shipment) error {
	if shipment.ID == uuid.Nil {
		shipment.ID = uuid.New()
	}
	if shipment.Status == "" {
		shipment.Status = models.DeliveryPending
	}

	addrJSON, err := json.Marshal(shipment.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `
		INSERT INTO shipments (id, order_id, tracking_number, carrier, status,
			estimated_delivery, actual_delivery, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (order_id) DO UPDATE SET
			tracking_number = EXCLUDED.tracking_number,
			carrier = EXCLUDED.carrier,
			status = EXCLUDED.status,
			estimated_delivery = EXCLUDED.estimated_delivery,
			actual_delivery = EXCLUDED.actual_delivery,
			shipping_address = EXCLUDED.shipping_address,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = s.pool.QueryRow(ctx, query,
		shipment.ID,
		shipment.OrderID,
		shipment.TrackingNumber,
		shipment.Carrier,
		shipment.Status,
		shipment.EstimatedDelivery,
		shipment.ActualDelivery,
		addrJSON,
	).Scan(&shipment.ID, &shipment.CreatedAt, &shipment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert shipment: %w", err)
	}
	return nil
}

// GetByOrderID возвращает отгрузку заказа, если она есть.
func (s *PostgresShipmentStorage) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Shipment, error) {
	query := `
		SELECT id, order_id, tracking_number, carrier, status,
			estimated_delivery, actual_delivery, shipping_address, created_at, updated_at
		FROM shipments
		WHERE order_id = $1
	`
	return scanShipment(s.pool.QueryRow(ctx, query, orderID))
}

// GetOpen возвращает отгрузки с трек-номером, которые ещё в пути.
// Их периодически опрашивает воркер синхронизации доставки.
func (s *PostgresShipmentStorage) GetOpen(ctx context.Context) ([]*models.Shipment, error) {
	query := `
		SELECT id, order_id, tracking_number, carrier, status,
			estimated_delivery, actual_delivery, shipping_address, created_at, updated_at
		FROM shipments
		WHERE tracking_number <> ''
		  AND status NOT IN ($1, $2)
		ORDER BY updated_at ASC
	`

	rows, err := s.pool.Query(ctx, query, models.DeliveryDelivered, models.DeliveryReturned)
	if err != nil {
		return nil, fmt.Errorf("failed to query open shipments: %w", err)
	}
	defer rows.Close()

	var shipments []*models.Shipment
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, shipment)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return shipments, nil
}

// UpdateDeliveryStatus обновляет состояние посылки по данным перевозчика.
func (s *PostgresShipmentStorage) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status models.DeliveryStatus, actualDelivery *time.Time) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE shipments
		SET status = $1, actual_delivery = COALESCE($2, actual_delivery), updated_at = NOW()
		WHERE id = $3
	`, status, actualDelivery, id)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrShipmentNotFound
	}
	return nil
}

// scanShipment помогает читать отгрузку из строки результата.
func scanShipment(row pgx.Row) (*models.Shipment, error) {
	var (
		shipment models.Shipment
		addrJSON []byte
	)

	err := row.Scan(
		&shipment.ID,
		&shipment.OrderID,
		&shipment.TrackingNumber,
		&shipment.Carrier,
		&shipment.Status,
		&shipment.EstimatedDelivery,
		&shipment.ActualDelivery,
		&addrJSON,
		&shipment.CreatedAt,
		&shipment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShipmentNotFound
		}
		return nil, fmt.Errorf("failed to scan shipment: %w", err)
	}

	if err := json.Unmarshal(addrJSON, &shipment.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	return &shipment, nil
}
