package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/services"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MockAdminService - мок для тестирования handlers
type MockAdminService struct {
	RegisterFunc func(ctx context.Context, name, email, password string) (*models.Admin, string, error)
	LoginFunc    func(ctx context.Context, email, password string) (*models.Admin, string, error)
}

func (m *MockAdminService) Register(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return nil, "", nil
}

func (m *MockAdminService) Login(ctx context.Context, email, password string) (*models.Admin, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", nil
}

func TestAdminHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockService    *MockAdminService
		expectedStatus int
		checkCookie    bool
	}{
		{
			name:        "successful registration",
			requestBody: `{"name":"Jane","email":"jane@example.com","password":"password123"}`,
			mockService: &MockAdminService{
				RegisterFunc: func(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
					return &models.Admin{
						ID:    uuid.New(),
						Name:  name,
						Email: email,
					}, "test-token", nil
				},
			},
			expectedStatus: http.StatusOK,
			checkCookie:    true,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"email":"jane@example.com"`,
			mockService:    &MockAdminService{},
			expectedStatus: http.StatusBadRequest,
			checkCookie:    false,
		},
		{
			name:        "empty credentials",
			requestBody: `{"email":"","password":""}`,
			mockService: &MockAdminService{
				RegisterFunc: func(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
					return nil, "", services.ErrEmptyCredentials
				},
			},
			expectedStatus: http.StatusBadRequest,
			checkCookie:    false,
		},
		{
			name:        "email already exists",
			requestBody: `{"name":"Jane","email":"existing@example.com","password":"password123"}`,
			mockService: &MockAdminService{
				RegisterFunc: func(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
					return nil, "", storage.ErrEmailExists
				},
			},
			expectedStatus: http.StatusConflict,
			checkCookie:    false,
		},
		{
			name:        "internal error",
			requestBody: `{"name":"Jane","email":"jane@example.com","password":"password123"}`,
			mockService: &MockAdminService{
				RegisterFunc: func(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
					return nil, "", errors.New("database error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
			checkCookie:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/register", strings.NewReader(tt.requestBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewAdminHandler(tt.mockService)
			err := handler.Register(c)

			if tt.expectedStatus < 400 {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				if rec.Code != tt.expectedStatus {
					t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
				}
			} else {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				if he, ok := err.(*echo.HTTPError); ok {
					if he.Code != tt.expectedStatus {
						t.Errorf("Expected status %d, got %d", tt.expectedStatus, he.Code)
					}
				}
			}

			if tt.checkCookie {
				cookies := rec.Result().Cookies()
				found := false
				for _, cookie := range cookies {
					if cookie.Name == "Authorization" {
						found = true
						if cookie.Value == "" {
							t.Error("Cookie value is empty")
						}
					}
				}
				if !found {
					t.Error("Authorization cookie not set")
				}
			}
		})
	}
}

func TestAdminHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockService    *MockAdminService
		expectedStatus int
		checkCookie    bool
	}{
		{
			name:        "successful login",
			requestBody: `{"email":"jane@example.com","password":"password123"}`,
			mockService: &MockAdminService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.Admin, string, error) {
					return &models.Admin{
						ID:    uuid.New(),
						Email: email,
					}, "test-token", nil
				},
			},
			expectedStatus: http.StatusOK,
			checkCookie:    true,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"email":"jane@example.com"`,
			mockService:    &MockAdminService{},
			expectedStatus: http.StatusBadRequest,
			checkCookie:    false,
		},
		{
			name:        "invalid credentials",
			requestBody: `{"email":"jane@example.com","password":"wrongpassword"}`,
			mockService: &MockAdminService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.Admin, string, error) {
					return nil, "", services.ErrInvalidCredentials
				},
			},
			expectedStatus: http.StatusUnauthorized,
			checkCookie:    false,
		},
		{
			name:        "internal error",
			requestBody: `{"email":"jane@example.com","password":"password123"}`,
			mockService: &MockAdminService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.Admin, string, error) {
					return nil, "", errors.New("database error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
			checkCookie:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(tt.requestBody))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewAdminHandler(tt.mockService)
			err := handler.Login(c)

			if tt.expectedStatus < 400 {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				if rec.Code != tt.expectedStatus {
					t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
				}
			} else {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				if he, ok := err.(*echo.HTTPError); ok {
					if he.Code != tt.expectedStatus {
						t.Errorf("Expected status %d, got %d", tt.expectedStatus, he.Code)
					}
				}
			}

			if tt.checkCookie {
				cookies := rec.Result().Cookies()
				found := false
				for _, cookie := range cookies {
					if cookie.Name == "Authorization" {
						found = true
					}
				}
				if !found {
					t.Error("Authorization cookie not set")
				}
			}
		})
	}
}

func TestSetAuthToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	token := "test-token-value"
	setAuthToken(c, token)

	// Проверяем cookie
	cookies := rec.Result().Cookies()
	var authCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "Authorization" {
			authCookie = cookie
			break
		}
	}

	if authCookie == nil {
		t.Fatal("Authorization cookie not set")
	}

	if authCookie.Value != token {
		t.Errorf("Cookie value = %v, want %v", authCookie.Value, token)
	}

	if authCookie.HttpOnly != true {
		t.Error("Cookie should be HttpOnly")
	}

	if authCookie.Path != "/" {
		t.Errorf("Cookie path = %v, want /", authCookie.Path)
	}

	if authCookie.MaxAge != 86400 {
		t.Errorf("Cookie MaxAge = %v, want 86400", authCookie.MaxAge)
	}

	// Проверяем header
	authHeader := rec.Header().Get("Authorization")
	expectedHeader := "Bearer " + token
	if authHeader != expectedHeader {
		t.Errorf("Authorization header = %v, want %v", authHeader, expectedHeader)
	}
}
