package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrCodeCollision   = errors.New("order code already exists")
	ErrVersionConflict = errors.New("order version conflict")
)

const orderColumns = `id, customer_id, code, invoice, cart, customer_info,
		sub_total, shipping_cost, discount, total, payment_method, shipping_method,
		status, shipment_tracking, origin, is_trashed, staff_notes, version,
		created_at, updated_at`

// OrderChanges описывает частичное обновление заказа. nil-поля не меняются.
type OrderChanges struct {
	Status           *models.OrderStatus
	ShipmentTracking *string
	Origin           *string
	IsTrashed        *bool
}

// Empty сообщает, что менять нечего.
func (c OrderChanges) Empty() bool {
	return c.Status == nil && c.ShipmentTracking == nil && c.Origin == nil && c.IsTrashed == nil
}

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error)
	MethodTotals(ctx context.Context, filter models.OrderFilter) ([]models.MethodTotal, error)
	StatusCounts(ctx context.Context, includeTrashed bool) (*models.OrderStatusCounts, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, version int64, changes OrderChanges) error
	SetTrashed(ctx context.Context, id uuid.UUID, trashed bool) error
	AddNote(ctx context.Context, id uuid.UUID, note models.StaffNote) ([]models.StaffNote, error)
}

// PostgresOrderStorage реализует OrderStorage для PostgreSQL.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

// Create сохраняет новый заказ. Номер счёта выдаёт последовательность
// orders_invoice_seq, поэтому он строго возрастает и не переиспользуется.
// Коллизия короткого кода отдаётся как ErrCodeCollision, повтор с новым
// кодом - забота вызывающего.
func (s *PostgresOrderStorage) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, code, cart, customer_info,
			sub_total, shipping_cost, discount, total, payment_method, shipping_method,
			status, origin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING invoice, created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Origin == "" {
		order.Origin = "Website"
	}

	cartJSON, err := json.Marshal(order.Cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	infoJSON, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal customer info: %w", err)
	}

	err = s.pool.QueryRow(ctx, query,
		order.ID,
		order.CustomerID,
		order.Code,
		cartJSON,
		infoJSON,
		order.SubTotal,
		order.ShippingCost,
		order.Discount,
		order.Total,
		order.PaymentMethod,
		order.ShippingMethod,
		order.Status,
		order.Origin,
	).Scan(&order.Invoice, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrCodeCollision
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.Version = 1
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(s.pool.QueryRow(ctx, query, id))
}

// GetByCustomerID возвращает заказы покупателя, новые сверху.
func (s *PostgresOrderStorage) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// List возвращает страницу заказов по фильтру и общее число совпадений.
func (s *PostgresOrderStorage) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	where, args := buildOrderFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM orders` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		orderBy(filter.SortBy, filter.SortOrder) +
		fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// MethodTotals возвращает суммы заказов по способам оплаты в пределах фильтра.
func (s *PostgresOrderStorage) MethodTotals(ctx context.Context, filter models.OrderFilter) ([]models.MethodTotal, error) {
	where, args := buildOrderFilter(filter)
	query := `
		SELECT payment_method, COALESCE(SUM(total), 0)
		FROM orders` + where + `
		GROUP BY payment_method
		ORDER BY payment_method
	`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query method totals: %w", err)
	}
	defer rows.Close()

	totals := []models.MethodTotal{}
	for rows.Next() {
		var mt models.MethodTotal
		if err := rows.Scan(&mt.Method, &mt.Total); err != nil {
			return nil, fmt.Errorf("failed to scan method total: %w", err)
		}
		totals = append(totals, mt)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return totals, nil
}

// StatusCounts возвращает счётчики для вкладок: все / Completed / Refunded.
func (s *PostgresOrderStorage) StatusCounts(ctx context.Context, includeTrashed bool) (*models.OrderStatusCounts, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2)
		FROM orders
		WHERE ($3 OR NOT is_trashed)
	`

	counts := &models.OrderStatusCounts{}
	err := s.pool.QueryRow(ctx, query, models.StatusCompleted, models.StatusRefunded, includeTrashed).
		Scan(&counts.All, &counts.Completed, &counts.Refunded)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	return counts, nil
}

// UpdateTx применяет частичное обновление внутри транзакции с проверкой
// версии (compare-and-set). Несовпадение версии - ErrVersionConflict,
// вызывающий перечитывает заказ и повторяет попытку.
func (s *PostgresOrderStorage) UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, version int64, changes OrderChanges) error {
	if changes.Empty() {
		return nil
	}

	set := []string{"version = version + 1", "updated_at = NOW()"}
	args := []interface{}{id, version}
	next := 3

	if changes.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", next))
		args = append(args, *changes.Status)
		next++
	}
	if changes.ShipmentTracking != nil {
		set = append(set, fmt.Sprintf("shipment_tracking = $%d", next))
		args = append(args, *changes.ShipmentTracking)
		next++
	}
	if changes.Origin != nil {
		set = append(set, fmt.Sprintf("origin = $%d", next))
		args = append(args, *changes.Origin)
		next++
	}
	if changes.IsTrashed != nil {
		set = append(set, fmt.Sprintf("is_trashed = $%d", next))
		args = append(args, *changes.IsTrashed)
		next++
	}

	query := `UPDATE orders SET ` + strings.Join(set, ", ") + ` WHERE id = $1 AND version = $2`

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		// Либо заказа нет, либо версия устарела.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// SetTrashed помечает заказ как удалённый (или восстанавливает).
// Статус и журнал переходов не трогает.
func (s *PostgresOrderStorage) SetTrashed(ctx context.Context, id uuid.UUID, trashed bool) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE orders SET is_trashed = $1, updated_at = NOW() WHERE id = $2
	`, trashed, id)
	if err != nil {
		return fmt.Errorf("failed to set trashed flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// AddNote дописывает заметку в конец staff_notes и возвращает весь список.
func (s *PostgresOrderStorage) AddNote(ctx context.Context, id uuid.UUID, note models.StaffNote) ([]models.StaffNote, error) {
	noteJSON, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note: %w", err)
	}

	var notesJSON []byte
	err = s.pool.QueryRow(ctx, `
		UPDATE orders
		SET staff_notes = staff_notes || $1::jsonb, updated_at = NOW()
		WHERE id = $2
		RETURNING staff_notes
	`, noteJSON, id).Scan(&notesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to add note: %w", err)
	}

	var notes []models.StaffNote
	if err := json.Unmarshal(notesJSON, &notes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notes: %w", err)
	}
	return notes, nil
}

// buildOrderFilter собирает WHERE-часть запроса по фильтру списка.
func buildOrderFilter(f models.OrderFilter) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.IncludeTrashed {
		conds = append(conds, "NOT is_trashed")
	}

	if f.Status != "" && f.Status != "All" {
		switch f.Status {
		case string(models.StatusCompleted), string(models.StatusRefunded):
			conds = append(conds, "status = "+arg(f.Status))
		default:
			conds = append(conds, "status ILIKE "+arg("%"+f.Status+"%"))
		}
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(code ILIKE %[1]s OR invoice::text ILIKE %[1]s OR customer_info->>'name' ILIKE %[1]s OR customer_info->>'email' ILIKE %[1]s)", p))
	}

	if f.Customer != "" {
		p := arg("%" + f.Customer + "%")
		conds = append(conds, fmt.Sprintf(
			"(customer_info->>'name' ILIKE %[1]s OR customer_info->>'email' ILIKE %[1]s)", p))
	} else if f.CustomerName != "" {
		// Старый параметр customerName, оставлен для совместимости.
		p := arg("%" + f.CustomerName + "%")
		conds = append(conds, fmt.Sprintf(
			"(customer_info->>'name' ILIKE %[1]s OR invoice::text ILIKE %[1]s)", p))
	}

	if f.Origin != "" {
		conds = append(conds, "origin ILIKE "+arg("%"+f.Origin+"%"))
	}

	if f.Method != "" {
		conds = append(conds, "payment_method ILIKE "+arg("%"+f.Method+"%"))
	}

	if f.StartDate != nil && f.EndDate != nil {
		start := startOfDay(*f.StartDate)
		end := endOfDay(*f.EndDate)
		conds = append(conds, "created_at >= "+arg(start), "created_at <= "+arg(end))
	} else if f.Day > 0 {
		start := startOfDay(time.Now().AddDate(0, 0, -f.Day))
		end := endOfDay(time.Now())
		conds = append(conds, "created_at >= "+arg(start), "created_at <= "+arg(end))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy транслирует параметры сортировки в ORDER BY. Поля ограничены
// белым списком, пользовательский ввод в SQL не попадает.
func orderBy(sortBy, sortOrder string) string {
	column := "created_at"
	switch sortBy {
	case "total":
		column = "total"
	case "orderId":
		column = "code"
	case "date", "":
		column = "created_at"
	}

	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, dir)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// collectOrders читает все заказы из результата запроса.
func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}
	return orders, nil
}

// scanOrder помогает читать заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order     models.Order
		cartJSON  []byte
		infoJSON  []byte
		notesJSON []byte
	)

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.Code,
		&order.Invoice,
		&cartJSON,
		&infoJSON,
		&order.SubTotal,
		&order.ShippingCost,
		&order.Discount,
		&order.Total,
		&order.PaymentMethod,
		&order.ShippingMethod,
		&order.Status,
		&order.ShipmentTracking,
		&order.Origin,
		&order.IsTrashed,
		&notesJSON,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(cartJSON, &order.Cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if err := json.Unmarshal(infoJSON, &order.CustomerInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer info: %w", err)
	}
	if err := json.Unmarshal(notesJSON, &order.StaffNotes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal staff notes: %w", err)
	}

	return &order, nil
}
