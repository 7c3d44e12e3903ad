package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFormatForExport(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 14, 30, 5, 0, time.UTC)
	order := &models.Order{
		ID:      uuid.New(),
		Code:    "AB12CD",
		Invoice: 10042,
		CustomerInfo: models.CustomerInfo{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Address: "1 Main St",
			City:    "Springfield",
			Country: "USA",
			ZipCode: "12345",
			Contact: "+1 555 0100",
		},
		SubTotal:         decimal.NewFromFloat(25.50),
		ShippingCost:     decimal.NewFromInt(3),
		Discount:         decimal.NewFromInt(1),
		Total:            decimal.NewFromFloat(27.50),
		PaymentMethod:    "Card",
		Status:           models.StatusDelivered,
		ShipmentTracking: "TRACK123",
		Origin:           "Website",
		CreatedAt:        createdAt,
	}

	record := FormatForExport(order)

	if len(record) != len(ExportFields) {
		t.Errorf("expected %d fields, got %d", len(ExportFields), len(record))
	}
	for _, field := range ExportFields {
		if _, ok := record[field]; !ok {
			t.Errorf("missing export field %q", field)
		}
	}

	if record["Order ID"] != "AB12CD" {
		t.Errorf("expected order code as Order ID, got %q", record["Order ID"])
	}
	if record["Invoice"] != "10042" {
		t.Errorf("expected invoice 10042, got %q", record["Invoice"])
	}
	if record["Order Date"] != "03/15/2026" {
		t.Errorf("unexpected order date: %q", record["Order Date"])
	}
	if record["Order Time"] != "2:30:05 PM" {
		t.Errorf("unexpected order time: %q", record["Order Time"])
	}
	if record["Total"] != "27.5" {
		t.Errorf("unexpected total: %q", record["Total"])
	}
}

func TestFormatForExportMissingFields(t *testing.T) {
	// Пустой заказ выгружается пустыми строками, без "null" и паник.
	record := FormatForExport(&models.Order{
		SubTotal:     decimal.Zero,
		ShippingCost: decimal.Zero,
		Discount:     decimal.Zero,
		Total:        decimal.Zero,
	})

	for _, field := range []string{"Invoice", "Order Date", "Order Time", "Shipment Tracking", "Customer Name"} {
		if record[field] != "" {
			t.Errorf("expected empty %q, got %q", field, record[field])
		}
	}
	if record["Sub Total"] != "0" {
		t.Errorf("expected zero sub total as \"0\", got %q", record["Sub Total"])
	}
}

func TestWriteCSV(t *testing.T) {
	orders := []*models.Order{
		{
			Code:         "AB12CD",
			Invoice:      10000,
			CustomerInfo: models.CustomerInfo{Name: "Jane Doe"},
			SubTotal:     decimal.NewFromInt(10),
			ShippingCost: decimal.Zero,
			Discount:     decimal.Zero,
			Total:        decimal.NewFromInt(10),
			Status:       models.StatusProcessing,
		},
		{
			Code:         "XY98ZW",
			SubTotal:     decimal.Zero,
			ShippingCost: decimal.Zero,
			Discount:     decimal.Zero,
			Total:        decimal.Zero,
			Status:       models.StatusPending,
		},
	}

	mockOrders := &storage.MockOrderStorage{
		ListFunc: func(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
			if filter.Limit < len(orders) {
				t.Errorf("expected the export to lift the page limit, got %d", filter.Limit)
			}
			return orders, int64(len(orders)), nil
		},
	}

	service := NewExportService(mockOrders)

	var buf bytes.Buffer
	if err := service.WriteCSV(context.Background(), &buf, models.OrderFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse produced csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	for i, field := range ExportFields {
		if rows[0][i] != field {
			t.Errorf("header column %d: expected %q, got %q", i, field, rows[0][i])
		}
	}
	if rows[1][0] != "AB12CD" || rows[1][1] != "10000" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][0] != "XY98ZW" || rows[2][1] != "" {
		t.Errorf("unexpected second row: %v", rows[2])
	}
}

func TestWriteCSVEmptyResult(t *testing.T) {
	service := NewExportService(&storage.MockOrderStorage{})

	var buf bytes.Buffer
	if err := service.WriteCSV(context.Background(), &buf, models.OrderFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse produced csv: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected only the header row, got %d rows", len(rows))
	}
}
