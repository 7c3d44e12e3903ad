package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange - неизменяемая запись журнала о смене статуса заказа.
// OldStatus пустой только у самого первого перехода.
type StatusChange struct {
	ID        uuid.UUID   `db:"id"`
	OrderID   uuid.UUID   `db:"order_id"`
	OldStatus OrderStatus `db:"old_status"`
	NewStatus OrderStatus `db:"new_status"`
	ChangedBy uuid.UUID   `db:"changed_by"`
	Reason    string      `db:"reason"`
	ChangedAt time.Time   `db:"changed_at"`
}

// StatusChangeResponse - запись журнала в ответе API.
type StatusChangeResponse struct {
	ID        uuid.UUID `json:"id"`
	OldStatus string    `json:"oldStatus,omitempty"`
	NewStatus string    `json:"newStatus"`
	ChangedBy uuid.UUID `json:"changedBy"`
	Reason    string    `json:"reason,omitempty"`
	ChangedAt string    `json:"changedAt"`
}
