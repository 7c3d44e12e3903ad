package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DashboardStorage - read-only проекции над заказами для отчётности.
// Ничего не мутирует; все суммы COALESCE до нуля, чтобы вызывающему
// не приходилось проверять на nil.
type DashboardStorage interface {
	CountAll(ctx context.Context) (int64, error)
	StatusAggregate(ctx context.Context, status models.OrderStatus) (*models.StatusAggregate, error)
	StatusCountsDetailed(ctx context.Context, includeTrashed bool) (map[models.OrderStatus]int64, error)
	TotalAmount(ctx context.Context) (decimal.Decimal, error)
	DeliveredAmountBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	RecentActive(ctx context.Context, page, limit int) ([]*models.Order, int64, error)
	BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error)
	DeliveredSince(ctx context.Context, since time.Time) ([]*models.Order, error)
}

// PostgresDashboardStorage реализует DashboardStorage для PostgreSQL.
type PostgresDashboardStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresDashboardStorage создаёт новый экземпляр PostgresDashboardStorage.
func NewPostgresDashboardStorage(pool *pgxpool.Pool) *PostgresDashboardStorage {
	return &PostgresDashboardStorage{pool: pool}
}

// CountAll возвращает общее число заказов.
func (s *PostgresDashboardStorage) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// StatusAggregate возвращает число и сумму заказов в заданном статусе.
func (s *PostgresDashboardStorage) StatusAggregate(ctx context.Context, status models.OrderStatus) (*models.StatusAggregate, error) {
	agg := &models.StatusAggregate{Total: decimal.Zero}
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE status = $1
	`, status).Scan(&agg.Count, &agg.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status %s: %w", status, err)
	}
	return agg, nil
}

// StatusCountsDetailed возвращает количество заказов по каждому статусу
// словаря. Статусы без заказов присутствуют в карте с нулём.
func (s *PostgresDashboardStorage) StatusCountsDetailed(ctx context.Context, includeTrashed bool) (map[models.OrderStatus]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		WHERE ($1 OR NOT is_trashed)
		GROUP BY status
	`, includeTrashed)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int64, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts[status] = 0
	}
	for rows.Next() {
		var (
			status models.OrderStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return counts, nil
}

// TotalAmount возвращает сумму total по всем заказам.
func (s *PostgresDashboardStorage) TotalAmount(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0) FROM orders`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum totals: %w", err)
	}
	return total, nil
}

// DeliveredAmountBetween возвращает выручку доставленных заказов за
// интервал. Границы сравниваются с updated_at: выручка признаётся в
// момент доставки, а не оформления.
func (s *PostgresDashboardStorage) DeliveredAmountBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE status ILIKE '%Delivered%'
		  AND updated_at >= $1 AND updated_at < $2
	`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum delivered amount: %w", err)
	}
	return total, nil
}

// RecentActive возвращает страницу недавно обновлённых заказов в
// "активных" статусах (Pending/Processing/Delivered/Cancel*).
func (s *PostgresDashboardStorage) RecentActive(ctx context.Context, page, limit int) ([]*models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 8
	}

	const activeFilter = `
		WHERE status ILIKE '%Pending%'
		   OR status ILIKE '%Processing%'
		   OR status ILIKE '%Delivered%'
		   OR status ILIKE '%Cancel%'
	`

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+activeFilter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recent orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + activeFilter +
		fmt.Sprintf(` ORDER BY updated_at DESC LIMIT %d OFFSET %d`, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// BestSellers разворачивает позиции корзин всех заказов, группирует по
// названию товара и возвращает топ по суммарному количеству.
func (s *PostgresDashboardStorage) BestSellers(ctx context.Context, limit int) ([]models.BestSeller, error) {
	if limit < 1 {
		limit = 4
	}

	rows, err := s.pool.Query(ctx, `
		SELECT item->>'title' AS title, SUM((item->>'quantity')::bigint) AS quantity
		FROM orders, jsonb_array_elements(cart) AS item
		GROUP BY item->>'title'
		ORDER BY quantity DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query best sellers: %w", err)
	}
	defer rows.Close()

	sellers := []models.BestSeller{}
	for rows.Next() {
		var bs models.BestSeller
		if err := rows.Scan(&bs.Title, &bs.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan best seller: %w", err)
		}
		sellers = append(sellers, bs)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return sellers, nil
}

// DeliveredSince возвращает доставленные заказы, обновлённые после since.
func (s *PostgresDashboardStorage) DeliveredSince(ctx context.Context, since time.Time) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status ILIKE '%Delivered%' AND updated_at >= $1
		ORDER BY updated_at DESC`

	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivered orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}
