package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/orderdesk/internal/auth"
	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/services"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mockOrderService struct {
	CreateFunc        func(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	ListFunc          func(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error)
	GetDetailsFunc    func(ctx context.Context, id uuid.UUID) (*models.OrderDetails, error)
	GetByCustomerFunc func(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error)
	UpdateFunc        func(ctx context.Context, id, actorID uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error)
	TrashFunc         func(ctx context.Context, id uuid.UUID) error
	BulkApplyFunc     func(ctx context.Context, actorID uuid.UUID, req *models.BulkUpdateRequest) (*models.BulkResult, error)
	AddNoteFunc       func(ctx context.Context, id, actorID uuid.UUID, note string) ([]models.StaffNote, error)
}

func (m *mockOrderService) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Order{}, nil
}

func (m *mockOrderService) List(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return &models.OrderListResponse{Orders: []*models.Order{}}, nil
}

func (m *mockOrderService) GetDetails(ctx context.Context, id uuid.UUID) (*models.OrderDetails, error) {
	if m.GetDetailsFunc != nil {
		return m.GetDetailsFunc(ctx, id)
	}
	return nil, storage.ErrOrderNotFound
}

func (m *mockOrderService) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Order, error) {
	if m.GetByCustomerFunc != nil {
		return m.GetByCustomerFunc(ctx, customerID)
	}
	return []*models.Order{}, nil
}

func (m *mockOrderService) Update(ctx context.Context, id, actorID uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, actorID, req)
	}
	return &services.UpdateResult{}, nil
}

func (m *mockOrderService) Trash(ctx context.Context, id uuid.UUID) error {
	if m.TrashFunc != nil {
		return m.TrashFunc(ctx, id)
	}
	return nil
}

func (m *mockOrderService) BulkApply(ctx context.Context, actorID uuid.UUID, req *models.BulkUpdateRequest) (*models.BulkResult, error) {
	if m.BulkApplyFunc != nil {
		return m.BulkApplyFunc(ctx, actorID, req)
	}
	return &models.BulkResult{}, nil
}

func (m *mockOrderService) AddNote(ctx context.Context, id, actorID uuid.UUID, note string) ([]models.StaffNote, error) {
	if m.AddNoteFunc != nil {
		return m.AddNoteFunc(ctx, id, actorID, note)
	}
	return nil, nil
}

type mockExportService struct {
	WriteCSVFunc func(ctx context.Context, w io.Writer, filter models.OrderFilter) error
}

func (m *mockExportService) WriteCSV(ctx context.Context, w io.Writer, filter models.OrderFilter) error {
	if m.WriteCSVFunc != nil {
		return m.WriteCSVFunc(ctx, w, filter)
	}
	return nil
}

func TestOrderHandler_UpdateOrder(t *testing.T) {
	orderID := uuid.New()
	actorID := uuid.New()

	tests := []struct {
		name           string
		id             string
		body           string
		mockService    *mockOrderService
		expectedStatus int
		wantWarning    bool
	}{
		{
			name: "status updated",
			id:   orderID.String(),
			body: `{"status":"Processing"}`,
			mockService: &mockOrderService{
				UpdateFunc: func(ctx context.Context, id, aid uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error) {
					if aid != actorID {
						t.Errorf("expected actor %s, got %s", actorID, aid)
					}
					return &services.UpdateResult{}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unusual transition returns warning",
			id:   orderID.String(),
			body: `{"status":"Pending"}`,
			mockService: &mockOrderService{
				UpdateFunc: func(ctx context.Context, id, aid uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error) {
					return &services.UpdateResult{Warning: "Warning: Unusual status transition from Delivered to Pending"}, nil
				},
			},
			expectedStatus: http.StatusOK,
			wantWarning:    true,
		},
		{
			name: "order not found",
			id:   orderID.String(),
			body: `{"status":"Processing"}`,
			mockService: &mockOrderService{
				UpdateFunc: func(ctx context.Context, id, aid uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error) {
					return nil, storage.ErrOrderNotFound
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "unknown status",
			id:   orderID.String(),
			body: `{"status":"Shipped"}`,
			mockService: &mockOrderService{
				UpdateFunc: func(ctx context.Context, id, aid uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error) {
					return nil, services.ErrUnknownStatus
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid id",
			id:             "not-a-uuid",
			body:           `{"status":"Processing"}`,
			mockService:    &mockOrderService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error",
			id:   orderID.String(),
			body: `{"status":"Processing"}`,
			mockService: &mockOrderService{
				UpdateFunc: func(ctx context.Context, id, aid uuid.UUID, req *models.UpdateOrderRequest) (*services.UpdateResult, error) {
					return nil, errors.New("db error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/api/orders/"+tt.id, strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.id)
			c.Set(string(auth.AdminIDKey), actorID)

			handler := NewOrderHandler(tt.mockService, &mockExportService{})
			err := handler.UpdateOrder(c)

			if tt.expectedStatus < 400 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if rec.Code != tt.expectedStatus {
					t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
				}
				var resp map[string]interface{}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to parse response: %v", err)
				}
				_, hasWarning := resp["warning"]
				if hasWarning != tt.wantWarning {
					t.Errorf("warning present = %v, want %v", hasWarning, tt.wantWarning)
				}
			} else {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if he, ok := err.(*echo.HTTPError); ok {
					if he.Code != tt.expectedStatus {
						t.Fatalf("status = %d, want %d", he.Code, tt.expectedStatus)
					}
				}
			}
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	orderID := uuid.New()

	t.Run("found", func(t *testing.T) {
		mockService := &mockOrderService{
			GetDetailsFunc: func(ctx context.Context, id uuid.UUID) (*models.OrderDetails, error) {
				return &models.OrderDetails{
					Order:         &models.Order{ID: orderID, Code: "AB12CD"},
					StatusHistory: []*models.StatusChangeResponse{},
				}, nil
			},
		}

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(orderID.String())

		handler := NewOrderHandler(mockService, &mockExportService{})
		if err := handler.GetOrder(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "AB12CD") {
			t.Errorf("response does not contain order code: %s", rec.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(orderID.String())

		handler := NewOrderHandler(&mockOrderService{}, &mockExportService{})
		err := handler.GetOrder(c)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if he, ok := err.(*echo.HTTPError); ok && he.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", he.Code, http.StatusNotFound)
		}
	})
}

func TestOrderHandler_ListOrdersFilter(t *testing.T) {
	var gotFilter models.OrderFilter
	mockService := &mockOrderService{
		ListFunc: func(ctx context.Context, filter models.OrderFilter) (*models.OrderListResponse, error) {
			gotFilter = filter
			return &models.OrderListResponse{Orders: []*models.Order{}}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders?status=Delivered&page=2&limit=25&search=jane&startDate=2026-01-01&endDate=2026-01-31", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewOrderHandler(mockService, &mockExportService{})
	if err := handler.ListOrders(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotFilter.Status != "Delivered" || gotFilter.Page != 2 || gotFilter.Limit != 25 || gotFilter.Search != "jane" {
		t.Errorf("unexpected filter: %+v", gotFilter)
	}
	if gotFilter.StartDate == nil || gotFilter.EndDate == nil {
		t.Error("expected date range to be parsed")
	}
}

func TestOrderHandler_BulkUpdate(t *testing.T) {
	validID := uuid.New()
	missingID := uuid.New()

	mockService := &mockOrderService{
		BulkApplyFunc: func(ctx context.Context, actorID uuid.UUID, req *models.BulkUpdateRequest) (*models.BulkResult, error) {
			return &models.BulkResult{
				Success: []models.BulkItemResult{{OrderID: validID, Action: "trashed"}},
				Failed:  []models.BulkItemResult{{OrderID: missingID, Message: "Order not found"}},
			}, nil
		},
	}

	e := echo.New()
	body := `{"orderIds":["` + validID.String() + `","` + missingID.String() + `"],"action":"trash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/bulk", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewOrderHandler(mockService, &mockExportService{})
	if err := handler.BulkUpdate(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "1 succeeded, 1 failed") {
		t.Errorf("unexpected bulk summary: %s", rec.Body.String())
	}
}

func TestOrderHandler_AddNoteRequiresAuth(t *testing.T) {
	orderID := uuid.New()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/notes", strings.NewReader(`{"note":"call customer"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(orderID.String())
	// admin_id в контекст не ставим

	handler := NewOrderHandler(&mockOrderService{}, &mockExportService{})
	err := handler.AddNote(c)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if he, ok := err.(*echo.HTTPError); ok && he.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", he.Code, http.StatusUnauthorized)
	}
}

func TestOrderHandler_ExportOrders(t *testing.T) {
	mockExport := &mockExportService{
		WriteCSVFunc: func(ctx context.Context, w io.Writer, filter models.OrderFilter) error {
			_, err := w.Write([]byte("Order ID,Invoice\n"))
			return err
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewOrderHandler(&mockOrderService{}, mockExport)
	if err := handler.ExportOrders(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.HasPrefix(cd, "attachment; filename=orders_") {
		t.Errorf("unexpected content disposition: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Order ID") {
		t.Errorf("expected csv body, got %q", rec.Body.String())
	}
}
