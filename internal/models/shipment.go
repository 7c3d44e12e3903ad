package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus описывает физическое состояние посылки.
// Словарь отдельный от OrderStatus: заказ и посылка живут своими жизнями.
type DeliveryStatus string

const (
	DeliveryPending        DeliveryStatus = "Pending"
	DeliveryLabelCreated   DeliveryStatus = "Label Created"
	DeliveryInTransit      DeliveryStatus = "In Transit"
	DeliveryOutForDelivery DeliveryStatus = "Out for Delivery"
	DeliveryDelivered      DeliveryStatus = "Delivered"
	DeliveryException      DeliveryStatus = "Exception"
	DeliveryReturned       DeliveryStatus = "Returned"
)

// ShippingAddress - снимок адреса доставки на момент отгрузки.
type ShippingAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
	Contact string `json:"contact"`
}

// Shipment представляет отгрузку заказа (1:1 с заказом).
type Shipment struct {
	ID                uuid.UUID       `db:"id"`
	OrderID           uuid.UUID       `db:"order_id"`
	TrackingNumber    string          `db:"tracking_number"`
	Carrier           string          `db:"carrier"`
	Status            DeliveryStatus  `db:"status"`
	EstimatedDelivery *time.Time      `db:"estimated_delivery"`
	ActualDelivery    *time.Time      `db:"actual_delivery"`
	ShippingAddress   ShippingAddress `db:"shipping_address"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}
