package handlers

import (
	"net/http"
	"strconv"

	"github.com/agamariel/orderdesk/internal/services"
	"github.com/labstack/echo/v4"
)

// DashboardHandler отдаёт сводные показатели для админской панели.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Count обрабатывает GET /api/dashboard/count.
func (h *DashboardHandler) Count(c echo.Context) error {
	count, err := h.dashboardService.Count(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to count dashboard orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, count)
}

// Amount обрабатывает GET /api/dashboard/amount.
func (h *DashboardHandler) Amount(c echo.Context) error {
	amount, err := h.dashboardService.Amount(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to aggregate dashboard amounts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, amount)
}

// RecentOrders обрабатывает GET /api/dashboard/recent.
func (h *DashboardHandler) RecentOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	resp, err := h.dashboardService.RecentOrders(c.Request().Context(), page, limit)
	if err != nil {
		c.Logger().Errorf("failed to get recent orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, resp)
}

// BestSellers обрабатывает GET /api/dashboard/best-sellers.
func (h *DashboardHandler) BestSellers(c echo.Context) error {
	resp, err := h.dashboardService.BestSellers(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to get best sellers: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, resp)
}

// StatusCounts обрабатывает GET /api/dashboard/status-counts.
func (h *DashboardHandler) StatusCounts(c echo.Context) error {
	counts, err := h.dashboardService.StatusCounts(c.Request().Context(), c.QueryParam("includeTrashed") == "true")
	if err != nil {
		c.Logger().Errorf("failed to count orders by status: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, counts)
}
