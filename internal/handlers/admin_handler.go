package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/services"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/labstack/echo/v4"
)

// AdminHandler обрабатывает HTTP-запросы для работы с администраторами.
type AdminHandler struct {
	adminService services.AdminService
}

// NewAdminHandler создаёт новый экземпляр AdminHandler.
func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Register обрабатывает POST /api/admin/register.
func (h *AdminHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	admin, token, err := h.adminService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, storage.ErrEmailExists) {
			return echo.NewHTTPError(http.StatusConflict, "email already exists")
		}
		c.Logger().Errorf("failed to register admin: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// Установка токена в cookie и заголовок
	setAuthToken(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"admin_id": admin.ID,
		"name":     admin.Name,
		"email":    admin.Email,
	})
}

// Login обрабатывает POST /api/admin/login.
func (h *AdminHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	admin, token, err := h.adminService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		c.Logger().Errorf("failed to login admin: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// Установка токена в cookie и заголовок
	setAuthToken(c, token)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"admin_id": admin.ID,
		"name":     admin.Name,
		"email":    admin.Email,
	})
}

// setAuthToken устанавливает токен в cookie и заголовок ответа.
func setAuthToken(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     "Authorization",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 часа
	}
	c.SetCookie(cookie)

	// Также устанавливаем в заголовок для удобства
	c.Response().Header().Set("Authorization", "Bearer "+token)
}
