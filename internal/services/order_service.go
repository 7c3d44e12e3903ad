package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/status"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/agamariel/orderdesk/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrEmptyNote            = errors.New("note is required")
	ErrActorRequired        = errors.New("admin authentication required")
	ErrEmptyOrderIDs        = errors.New("order ids are required")
	ErrInvalidBulkAction    = errors.New("invalid action or missing status")
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// Сколько раз повторяем read-validate-write при конфликте версий.
const maxUpdateRetries = 3

const orderCodeLength = 6

// TxBeginner открывает транзакции. Ему удовлетворяет *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UpdateResult - итог обновления заказа: предупреждение валидатора,
// если переход был вне графа (политика рекомендательная, заказ всё
// равно обновлён).
type UpdateResult struct {
	Warning string
}

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*models.OrderDetails, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error)
	Update(ctx context.Context, id, actorID uuid.UUID, req *models.UpdateOrderRequest) (*UpdateResult, error)
	Trash(ctx context.Context, id uuid.UUID) error
	BulkApply(ctx context.Context, actorID uuid.UUID, req *models.BulkUpdateRequest) (*models.BulkResult, error)
	AddNote(ctx context.Context, id, actorID uuid.UUID, note string) ([]models.StaffNote, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	pool            TxBeginner
	orderStorage    storage.OrderStorage
	historyStorage  storage.HistoryStorage
	shipmentStorage storage.ShipmentStorage
	strict          bool
}

// NewOrderService создаёт новый сервис заказов. strict включает жёсткий
// режим валидатора: необычные переходы отклоняются, а не логируются.
func NewOrderService(pool TxBeginner, orderStorage storage.OrderStorage, historyStorage storage.HistoryStorage, shipmentStorage storage.ShipmentStorage, strict bool) *OrderServiceImpl {
	return &OrderServiceImpl{
		pool:            pool,
		orderStorage:    orderStorage,
		historyStorage:  historyStorage,
		shipmentStorage: shipmentStorage,
		strict:          strict,
	}
}

// Create оформляет новый заказ со снимком корзины и платёжных данных.
// Итоги считаются один раз здесь и далее хранятся как есть.
func (s *OrderServiceImpl) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	subTotal := decimal.Zero
	for _, item := range req.Cart {
		subTotal = subTotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		CustomerID:     req.CustomerID,
		Cart:           req.Cart,
		CustomerInfo:   req.CustomerInfo,
		SubTotal:       subTotal,
		ShippingCost:   req.ShippingCost,
		Discount:       req.Discount,
		Total:          subTotal.Add(req.ShippingCost).Sub(req.Discount),
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
		Status:         models.StatusPaymentProcessing,
		Origin:         req.Origin,
	}

	// Код заказа случайный, уникальность обеспечивает индекс в базе:
	// при коллизии пробуем ещё раз с новым кодом.
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		order.Code = utils.GenerateOrderCode(orderCodeLength)
		err := s.orderStorage.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, storage.ErrCodeCollision) {
			return nil, fmt.Errorf("create order: %w", err)
		}
	}
	return nil, fmt.Errorf("create order: %w", storage.ErrCodeCollision)
}

// List возвращает страницу заказов с общими счётчиками. Суммы по
// способам оплаты считаются только для выборок по диапазону дат.
func (s *OrderServiceImpl) List(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error) {
	orders, total, err := s.orderStorage.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	counts, err := s.orderStorage.StatusCounts(ctx, filter.IncludeTrashed)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	methodTotals := []models.MethodTotal{}
	if filter.StartDate != nil && filter.EndDate != nil {
		methodTotals, err = s.orderStorage.MethodTotals(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("method totals: %w", err)
		}
	}

	if orders == nil {
		orders = []*models.Order{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	return &models.OrderListResponse{
		Orders:       orders,
		Limits:       limit,
		Pages:        page,
		TotalDoc:     total,
		MethodTotals: methodTotals,
		StatusCounts: counts,
	}, nil
}

// GetDetails возвращает заказ вместе с журналом статусов (новые сверху)
// и отгрузкой, если она есть.
func (s *OrderServiceImpl) GetDetails(ctx context.Context, id uuid.UUID) (*models.OrderDetails, error) {
	order, err := s.orderStorage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.historyStorage.GetByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get status history: %w", err)
	}

	details := &models.OrderDetails{
		Order:         order,
		StatusHistory: make([]*models.StatusChangeResponse, 0, len(history)),
	}
	for _, change := range history {
		details.StatusHistory = append(details.StatusHistory, &models.StatusChangeResponse{
			ID:        change.ID,
			OldStatus: string(change.OldStatus),
			NewStatus: string(change.NewStatus),
			ChangedBy: change.ChangedBy,
			Reason:    change.Reason,
			ChangedAt: change.ChangedAt.Format(time.RFC3339),
		})
	}

	shipment, err := s.shipmentStorage.GetByOrderID(ctx, id)
	if err != nil && !errors.Is(err, storage.ErrShipmentNotFound) {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	details.Shipment = shipment

	return details, nil
}

// GetByCustomer возвращает заказы покупателя, новые сверху.
func (s *OrderServiceImpl) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error) {
	orders, err := s.orderStorage.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// Update применяет изменения администратора к заказу. Смена статуса
// проходит через валидатор и фиксируется в журнале ровно одной записью
// в той же транзакции. Повтор одинакового статуса записи не создаёт.
func (s *OrderServiceImpl) Update(ctx context.Context, id, actorID uuid.UUID, req *models.UpdateOrderRequest) (*UpdateResult, error) {
	newStatus := models.OrderStatus(req.Status)
	if req.Status != "" && !newStatus.IsKnown() {
		return nil, ErrUnknownStatus
	}

	var lastErr error
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		order, err := s.orderStorage.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		changes := storage.OrderChanges{
			ShipmentTracking: req.ShipmentTracking,
			IsTrashed:        req.IsTrashed,
		}
		if req.Origin != "" {
			origin := req.Origin
			changes.Origin = &origin
		}

		warning := ""
		statusChanged := req.Status != "" && newStatus != order.Status
		if statusChanged {
			validation := status.Validate(order.Status, newStatus)
			if validation.Unusual {
				if s.strict {
					return nil, fmt.Errorf("%w: %s", ErrTransitionNotAllowed, validation.Message)
				}
				warning = validation.Message
			}
			st := newStatus
			changes.Status = &st
		}

		if changes.Empty() {
			return &UpdateResult{}, nil
		}

		err = s.applyUpdate(ctx, order, changes, statusChanged, actorID, req.Reason)
		if errors.Is(err, storage.ErrVersionConflict) {
			// Параллельное обновление успело раньше: перечитываем
			// заказ и проверяем переход заново.
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Warning: warning}, nil
	}
	return nil, fmt.Errorf("update order: %w", lastErr)
}

// applyUpdate выполняет compare-and-set заказа и запись журнала одной
// транзакцией. Запись появляется только при реальной смене статуса и
// известном авторе.
func (s *OrderServiceImpl) applyUpdate(ctx context.Context, order *models.Order, changes storage.OrderChanges, statusChanged bool, actorID uuid.UUID, reason string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.orderStorage.UpdateTx(ctx, tx, order.ID, order.Version, changes); err != nil {
		return err
	}

	if statusChanged && actorID != uuid.Nil {
		change := &models.StatusChange{
			OrderID:   order.ID,
			OldStatus: order.Status,
			NewStatus: *changes.Status,
			ChangedBy: actorID,
			Reason:    reason,
		}
		if err := s.historyStorage.CreateTx(ctx, tx, change); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	// Появившийся трек-номер заводит отгрузку, дальше её ведёт воркер.
	if changes.ShipmentTracking != nil && *changes.ShipmentTracking != "" {
		shipment := &models.Shipment{
			OrderID:        order.ID,
			TrackingNumber: *changes.ShipmentTracking,
		}
		if err := s.shipmentStorage.Upsert(ctx, shipment); err != nil {
			return fmt.Errorf("upsert shipment: %w", err)
		}
	}
	return nil
}

// Trash помечает заказ удалённым. Журнал статусов не трогается и
// остаётся доступным.
func (s *OrderServiceImpl) Trash(ctx context.Context, id uuid.UUID) error {
	return s.orderStorage.SetTrashed(ctx, id, true)
}

// BulkApply выполняет действие над пачкой заказов. Заказы обрабатываются
// независимо: ошибка одного не прерывает остальных, каждый id попадает
// ровно в один из списков результата.
func (s *OrderServiceImpl) BulkApply(ctx context.Context, actorID uuid.UUID, req *models.BulkUpdateRequest) (*models.BulkResult, error) {
	if len(req.OrderIDs) == 0 {
		return nil, ErrEmptyOrderIDs
	}
	if req.Action != models.BulkActionTrash && (req.Action != models.BulkActionChangeStatus || req.Status == "") {
		return nil, ErrInvalidBulkAction
	}

	result := &models.BulkResult{
		Success: []models.BulkItemResult{},
		Failed:  []models.BulkItemResult{},
	}

	for _, orderID := range req.OrderIDs {
		switch req.Action {
		case models.BulkActionTrash:
			if err := s.orderStorage.SetTrashed(ctx, orderID, true); err != nil {
				result.Failed = append(result.Failed, models.BulkItemResult{
					OrderID: orderID,
					Message: bulkFailureMessage(err),
				})
				continue
			}
			result.Success = append(result.Success, models.BulkItemResult{
				OrderID: orderID,
				Action:  "trashed",
			})

		case models.BulkActionChangeStatus:
			upd := &models.UpdateOrderRequest{Status: req.Status, Reason: req.Reason}
			if _, err := s.Update(ctx, orderID, actorID, upd); err != nil {
				result.Failed = append(result.Failed, models.BulkItemResult{
					OrderID: orderID,
					Message: bulkFailureMessage(err),
				})
				continue
			}
			result.Success = append(result.Success, models.BulkItemResult{
				OrderID: orderID,
				Action:  "status changed",
				Status:  req.Status,
			})
		}
	}

	return result, nil
}

// AddNote дописывает административную заметку. Без известного автора
// заметка не принимается.
func (s *OrderServiceImpl) AddNote(ctx context.Context, id, actorID uuid.UUID, note string) ([]models.StaffNote, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrEmptyNote
	}
	if actorID == uuid.Nil {
		return nil, ErrActorRequired
	}

	notes, err := s.orderStorage.AddNote(ctx, id, models.StaffNote{
		Note:    note,
		AddedBy: actorID,
		AddedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func bulkFailureMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		return "Order not found"
	case errors.Is(err, ErrUnknownStatus):
		return "Unknown order status"
	case errors.Is(err, ErrTransitionNotAllowed):
		return err.Error()
	default:
		return err.Error()
	}
}
