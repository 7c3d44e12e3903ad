package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrHistoryNotFound = errors.New("status history not found")

// HistoryStorage определяет интерфейс журнала переходов статусов.
// Журнал append-only: записи никогда не изменяются и не удаляются.
type HistoryStorage interface {
	Create(ctx context.Context, change *models.StatusChange) error
	CreateTx(ctx context.Context, tx pgx.Tx, change *models.StatusChange) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.StatusChange, error)
}

// PostgresHistoryStorage реализует HistoryStorage для PostgreSQL.
type PostgresHistoryStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryStorage создаёт новый экземпляр PostgresHistoryStorage.
func NewPostgresHistoryStorage(pool *pgxpool.Pool) *PostgresHistoryStorage {
	return &PostgresHistoryStorage{pool: pool}
}

const insertHistoryQuery = `
	INSERT INTO order_status_history (id, order_id, old_status, new_status, changed_by, reason, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING changed_at
`

// Create записывает переход вне транзакции.
func (s *PostgresHistoryStorage) Create(ctx context.Context, change *models.StatusChange) error {
	prepareChange(change)
	err := s.pool.QueryRow(ctx, insertHistoryQuery,
		change.ID,
		change.OrderID,
		nullableStatus(change.OldStatus),
		change.NewStatus,
		change.ChangedBy,
		change.Reason,
	).Scan(&change.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}
	return nil
}

// CreateTx записывает переход в той же транзакции, что и смена статуса
// заказа: либо фиксируются оба, либо ни одного.
func (s *PostgresHistoryStorage) CreateTx(ctx context.Context, tx pgx.Tx, change *models.StatusChange) error {
	prepareChange(change)
	err := tx.QueryRow(ctx, insertHistoryQuery,
		change.ID,
		change.OrderID,
		nullableStatus(change.OldStatus),
		change.NewStatus,
		change.ChangedBy,
		change.Reason,
	).Scan(&change.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}
	return nil
}

// GetByOrderID возвращает журнал заказа, новые записи сверху.
func (s *PostgresHistoryStorage) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.StatusChange, error) {
	query := `
		SELECT id, order_id, old_status, new_status, changed_by, reason, changed_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at DESC
	`

	rows, err := s.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []*models.StatusChange
	for rows.Next() {
		var (
			change    models.StatusChange
			oldStatus sql.NullString
		)
		err := rows.Scan(
			&change.ID,
			&change.OrderID,
			&oldStatus,
			&change.NewStatus,
			&change.ChangedBy,
			&change.Reason,
			&change.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		if oldStatus.Valid {
			change.OldStatus = models.OrderStatus(oldStatus.String)
		}
		history = append(history, &change)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return history, nil
}

func prepareChange(change *models.StatusChange) {
	if change.ID == uuid.Nil {
		change.ID = uuid.New()
	}
}

// nullableStatus хранит пустой старый статус как NULL (первый переход).
func nullableStatus(s models.OrderStatus) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{Valid: true, String: string(s)}
}
