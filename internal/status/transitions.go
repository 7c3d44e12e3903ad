// Package status содержит декларативную машину статусов заказа.
package status

import (
	"fmt"

	"github.com/agamariel/orderdesk/internal/models"
)

// Result - итог проверки перехода. Проверка рекомендательная:
// Valid всегда true, Unusual помечает переходы вне графа, чтобы
// вызывающий код мог ужесточить политику (strict-режим) или
// просто записать предупреждение в лог.
type Result struct {
	Valid   bool
	Unusual bool
	Message string
}

// transitions - граф допустимых переходов. У терминальных статусов
// (Cancelled, Refunded) исходящих рёбер нет.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPaymentProcessing: {
		models.StatusPending,
		models.StatusProcessing,
		models.StatusCancelled,
		models.StatusOnHold,
	},
	models.StatusPending: {
		models.StatusProcessing,
		models.StatusAwaitingStock,
		models.StatusOnHold,
		models.StatusCancelled,
	},
	models.StatusProcessing: {
		models.StatusAwaitingStock,
		models.StatusOnHold,
		models.StatusPickingPacking,
		models.StatusCancelled,
	},
	models.StatusAwaitingStock: {
		models.StatusProcessing,
		models.StatusPickingPacking,
		models.StatusOnHold,
		models.StatusCancelled,
	},
	models.StatusOnHold: {
		models.StatusProcessing,
		models.StatusAwaitingStock,
		models.StatusPickingPacking,
		models.StatusCancelled,
	},
	models.StatusPickingPacking: {
		models.StatusAwaitingDelivery,
		models.StatusOnHold,
		models.StatusCancelled,
	},
	models.StatusAwaitingDelivery: {
		models.StatusOutForDelivery,
		models.StatusOnHold,
		models.StatusCancelled,
	},
	models.StatusOutForDelivery: {
		models.StatusDelivered,
		models.StatusCompleted,
		models.StatusOnHold,
	},
	models.StatusDelivered: {
		models.StatusCompleted,
		models.StatusRefunded,
	},
	models.StatusCompleted: {
		models.StatusRefunded,
	},
	models.StatusCancel: {
		models.StatusCancelled,
	},
	models.StatusCancelled: {},
	models.StatusRefunded:  {},
}

// Validate проверяет переход oldStatus -> newStatus по графу.
// Побочных эффектов нет. Неизвестный oldStatus разрешается без
// предупреждения - это намеренный запасной выход для старых заказов
// со статусами вне словаря.
func Validate(oldStatus, newStatus models.OrderStatus) Result {
	allowed, known := transitions[oldStatus]
	if !known {
		return Result{Valid: true, Message: "Status transition allowed"}
	}

	for _, s := range allowed {
		if s == newStatus {
			return Result{Valid: true, Message: "Status transition allowed"}
		}
	}

	return Result{
		Valid:   true,
		Unusual: true,
		Message: fmt.Sprintf("Warning: Unusual status transition from %s to %s", oldStatus, newStatus),
	}
}

// AllowedNext возвращает допустимые следующие статусы; nil - если
// статус неизвестен графу.
func AllowedNext(s models.OrderStatus) []models.OrderStatus {
	next, ok := transitions[s]
	if !ok {
		return nil
	}
	out := make([]models.OrderStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal сообщает, является ли статус терминальным в графе.
func IsTerminal(s models.OrderStatus) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}
