package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus описывает коммерческий статус заказа.
type OrderStatus string

const (
	StatusPaymentProcessing OrderStatus = "Payment-Processing"
	StatusPending           OrderStatus = "Pending"
	StatusProcessing        OrderStatus = "Processing"
	StatusAwaitingStock     OrderStatus = "Awaiting Stock"
	StatusOnHold            OrderStatus = "On-Hold"
	StatusPickingPacking    OrderStatus = "Picking/Packing"
	StatusAwaitingDelivery  OrderStatus = "Awaiting Delivery"
	StatusOutForDelivery    OrderStatus = "Out-for-Delivery"
	StatusDelivered         OrderStatus = "Delivered"
	StatusCompleted         OrderStatus = "Completed"
	StatusCancel            OrderStatus = "Cancel" // legacy-значение, встречается в старых заказах
	StatusCancelled         OrderStatus = "Cancelled"
	StatusRefunded          OrderStatus = "Refunded"
)

// AllStatuses - полный словарь статусов в каноническом порядке.
var AllStatuses = []OrderStatus{
	StatusPaymentProcessing,
	StatusPending,
	StatusProcessing,
	StatusAwaitingStock,
	StatusOnHold,
	StatusPickingPacking,
	StatusAwaitingDelivery,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCompleted,
	StatusCancel,
	StatusCancelled,
	StatusRefunded,
}

// IsKnown сообщает, входит ли статус в фиксированный словарь.
func (s OrderStatus) IsKnown() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CartItem - позиция корзины, зафиксированная на момент оформления заказа.
// Последующие изменения товара на снимок не влияют.
type CartItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CustomerInfo - денормализованный снимок платёжных данных покупателя.
// Хранится вместе с заказом, чтобы правки профиля не меняли историю.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// StaffNote - административная заметка к заказу. Список только пополняется.
type StaffNote struct {
	Note    string    `json:"note"`
	AddedBy uuid.UUID `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// Order представляет заказ покупателя.
type Order struct {
	ID               uuid.UUID       `db:"id"`
	CustomerID       uuid.UUID       `db:"customer_id"`
	Code             string          `db:"code"`    // короткий код для покупателя
	Invoice          int64           `db:"invoice"` // сквозной номер счёта
	Cart             []CartItem      `db:"cart"`
	CustomerInfo     CustomerInfo    `db:"customer_info"`
	SubTotal         decimal.Decimal `db:"sub_total"`
	ShippingCost     decimal.Decimal `db:"shipping_cost"`
	Discount         decimal.Decimal `db:"discount"`
	Total            decimal.Decimal `db:"total"`
	PaymentMethod    string          `db:"payment_method"`
	ShippingMethod   string          `db:"shipping_method"`
	Status           OrderStatus     `db:"status"`
	ShipmentTracking string          `db:"shipment_tracking"`
	Origin           string          `db:"origin"`
	IsTrashed        bool            `db:"is_trashed"`
	StaffNotes       []StaffNote     `db:"staff_notes"`
	Version          int64           `db:"version"` // счётчик для optimistic locking
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// OrderFilter - параметры фильтрации списка заказов.
type OrderFilter struct {
	Day            int
	Status         string
	Method         string
	StartDate      *time.Time
	EndDate        *time.Time
	CustomerName   string
	Customer       string
	Origin         string
	Search         string
	SortBy         string
	SortOrder      string
	Page           int
	Limit          int
	IncludeTrashed bool
}

// CreateOrderRequest - запрос на оформление заказа.
type CreateOrderRequest struct {
	CustomerID     uuid.UUID       `json:"customerId"`
	Cart           []CartItem      `json:"cart"`
	CustomerInfo   CustomerInfo    `json:"user_info"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Discount       decimal.Decimal `json:"discount"`
	PaymentMethod  string          `json:"paymentMethod"`
	ShippingMethod string          `json:"shippingMethod"`
	Origin         string          `json:"origin"`
}

// UpdateOrderRequest - запрос на изменение заказа администратором.
// Указатели отличают "поле не передано" от явного значения.
type UpdateOrderRequest struct {
	Status           string  `json:"status"`
	ShipmentTracking *string `json:"shipmentTracking"`
	Origin           string  `json:"origin"`
	IsTrashed        *bool   `json:"isTrashed"`
	Reason           string  `json:"reason"`
}

// BulkAction - действие массовой операции.
type BulkAction string

const (
	BulkActionTrash        BulkAction = "trash"
	BulkActionChangeStatus BulkAction = "changeStatus"
)

// BulkUpdateRequest - запрос массовой операции над заказами.
type BulkUpdateRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds"`
	Action   BulkAction  `json:"action"`
	Status   string      `json:"status,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

// BulkItemResult - итог операции по одному заказу.
type BulkItemResult struct {
	OrderID uuid.UUID `json:"orderId"`
	Action  string    `json:"action,omitempty"`
	Status  string    `json:"status,omitempty"`
	Message string    `json:"message,omitempty"`
}

// BulkResult - сводка массовой операции: каждый id попадает ровно
// в один из списков.
type BulkResult struct {
	Success []BulkItemResult `json:"success"`
	Failed  []BulkItemResult `json:"failed"`
}

// MethodTotal - сумма заказов по способу оплаты.
type MethodTotal struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
}

// OrderStatusCounts - счётчики для вкладок списка заказов.
type OrderStatusCounts struct {
	All       int64 `json:"all"`
	Completed int64 `json:"completed"`
	Refunded  int64 `json:"refunded"`
}

// OrderListResponse - ответ списка заказов с пагинацией и счётчиками.
type OrderListResponse struct {
	Orders       []*Order           `json:"orders"`
	Limits       int                `json:"limits"`
	Pages        int                `json:"pages"`
	TotalDoc     int64              `json:"totalDoc"`
	MethodTotals []MethodTotal      `json:"methodTotals"`
	StatusCounts *OrderStatusCounts `json:"statusCounts"`
}

// OrderDetails - карточка заказа: сам заказ, журнал статусов и отгрузка.
type OrderDetails struct {
	Order         *Order                  `json:"order"`
	StatusHistory []*StatusChangeResponse `json:"statusHistory"`
	Shipment      *Shipment               `json:"shipment"`
}

// AddNoteRequest - запрос на добавление заметки к заказу.
type AddNoteRequest struct {
	Note string `json:"note"`
}
