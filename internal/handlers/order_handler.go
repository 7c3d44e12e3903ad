package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agamariel/orderdesk/internal/auth"
	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/services"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandler обрабатывает запросы, связанные с заказами.
type OrderHandler struct {
	orderService  services.OrderService
	exportService services.ExportService
}

func NewOrderHandler(orderService services.OrderService, exportService services.ExportService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		exportService: exportService,
	}
}

// CreateOrder обрабатывает POST /api/orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.Create(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		c.Logger().Errorf("failed to create order: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, order)
}

// ListOrders обрабатывает GET /api/orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	filter := parseOrderFilter(c)

	resp, err := h.orderService.List(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("failed to list orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, resp)
}

// GetOrder обрабатывает GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	details, err := h.orderService.GetDetails(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		c.Logger().Errorf("failed to get order %s: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, details)
}

// GetCustomerOrders обрабатывает GET /api/orders/customer/:id.
func (h *OrderHandler) GetCustomerOrders(c echo.Context) error {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	orders, err := h.orderService.GetByCustomer(c.Request().Context(), customerID)
	if err != nil {
		c.Logger().Errorf("failed to get customer orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, orders)
}

// UpdateOrder обрабатывает PUT /api/orders/:id.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req models.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	actorID := auth.ActorFromContext(c)
	result, err := h.orderService.Update(c.Request().Context(), id, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrUnknownStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrTransitionNotAllowed):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to update order %s: %v", id, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	resp := map[string]interface{}{
		"message": "Order Updated Successfully!",
	}
	if result.Warning != "" {
		// Переход вне графа: заказ обновлён, но предупреждение
		// возвращаем вызывающему.
		c.Logger().Warnf("order %s: %s", id, result.Warning)
		resp["warning"] = result.Warning
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteOrder обрабатывает DELETE /api/orders/:id (мягкое удаление).
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.orderService.Trash(c.Request().Context(), id); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		}
		c.Logger().Errorf("failed to trash order %s: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Order moved to trash successfully!",
	})
}

// BulkUpdate обрабатывает POST /api/orders/bulk.
func (h *OrderHandler) BulkUpdate(c echo.Context) error {
	var req models.BulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	actorID := auth.ActorFromContext(c)
	result, err := h.orderService.BulkApply(c.Request().Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyOrderIDs), errors.Is(err, services.ErrInvalidBulkAction):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("bulk update failed: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Bulk update completed. %d succeeded, %d failed.",
			len(result.Success), len(result.Failed)),
		"results": result,
	})
}

// AddNote обрабатывает POST /api/orders/:id/notes.
func (h *OrderHandler) AddNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req models.AddNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	actorID, err := auth.GetAdminIDFromContext(c)
	if err != nil {
		return err
	}

	notes, err := h.orderService.AddNote(c.Request().Context(), id, actorID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyNote):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrActorRequired):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, storage.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Order not found")
		default:
			c.Logger().Errorf("failed to add note to order %s: %v", id, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Note added successfully",
		"notes":   notes,
	})
}

// ExportOrders обрабатывает GET /api/orders/export: отдаёт CSV с теми же
// фильтрами, что и список.
func (h *OrderHandler) ExportOrders(c echo.Context) error {
	filter := parseOrderFilter(c)

	filename := fmt.Sprintf("orders_%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	c.Response().WriteHeader(http.StatusOK)

	if err := h.exportService.WriteCSV(c.Request().Context(), c.Response(), filter); err != nil {
		// Заголовки уже отправлены, остаётся только залогировать.
		c.Logger().Errorf("failed to export orders: %v", err)
		return err
	}
	return nil
}

// parseOrderFilter собирает фильтр списка заказов из query-параметров.
func parseOrderFilter(c echo.Context) models.OrderFilter {
	filter := models.OrderFilter{
		Status:         c.QueryParam("status"),
		Method:         c.QueryParam("method"),
		CustomerName:   c.QueryParam("customerName"),
		Customer:       c.QueryParam("customer"),
		Origin:         c.QueryParam("origin"),
		Search:         c.QueryParam("search"),
		SortBy:         c.QueryParam("sortBy"),
		SortOrder:      c.QueryParam("sortOrder"),
		IncludeTrashed: c.QueryParam("includeTrashed") == "true",
	}

	if day, err := strconv.Atoi(c.QueryParam("day")); err == nil {
		filter.Day = day
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		filter.Limit = limit
	}
	if start, err := time.Parse("2006-01-02", c.QueryParam("startDate")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse("2006-01-02", c.QueryParam("endDate")); err == nil {
		filter.EndDate = &end
	}

	return filter
}
