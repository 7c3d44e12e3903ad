package services

import (
	"context"
	"testing"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/shopspring/decimal"
)

func TestDashboardCountEmptyDatabase(t *testing.T) {
	// На пустой базе все агрегаты нулевые, а не отсутствующие.
	service := NewDashboardService(&storage.MockDashboardStorage{})

	count, err := service.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count.TotalOrder != 0 {
		t.Errorf("expected total 0, got %d", count.TotalOrder)
	}
	if count.TotalPendingOrder.Count != 0 || !count.TotalPendingOrder.Total.Equal(decimal.Zero) {
		t.Errorf("expected zero pending aggregate, got %+v", count.TotalPendingOrder)
	}
	if count.TotalProcessingOrder != 0 || count.TotalDeliveredOrder != 0 {
		t.Errorf("expected zero processing/delivered, got %d/%d", count.TotalProcessingOrder, count.TotalDeliveredOrder)
	}
}

func TestDashboardCount(t *testing.T) {
	mock := &storage.MockDashboardStorage{
		CountAllFunc: func(ctx context.Context) (int64, error) {
			return 42, nil
		},
		StatusAggregateFunc: func(ctx context.Context, st models.OrderStatus) (*models.StatusAggregate, error) {
			switch st {
			case models.StatusPending:
				return &models.StatusAggregate{Count: 5, Total: decimal.NewFromInt(500)}, nil
			case models.StatusProcessing:
				return &models.StatusAggregate{Count: 7, Total: decimal.NewFromInt(700)}, nil
			case models.StatusDelivered:
				return &models.StatusAggregate{Count: 30, Total: decimal.NewFromInt(3000)}, nil
			}
			return &models.StatusAggregate{Total: decimal.Zero}, nil
		},
	}

	service := NewDashboardService(mock)

	count, err := service.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count.TotalOrder != 42 {
		t.Errorf("expected 42 orders, got %d", count.TotalOrder)
	}
	if count.TotalPendingOrder.Count != 5 {
		t.Errorf("expected 5 pending, got %d", count.TotalPendingOrder.Count)
	}
	if count.TotalProcessingOrder != 7 || count.TotalDeliveredOrder != 30 {
		t.Errorf("expected 7 processing and 30 delivered, got %d/%d", count.TotalProcessingOrder, count.TotalDeliveredOrder)
	}
}

func TestDashboardAmountMonthBuckets(t *testing.T) {
	var ranges [][2]time.Time
	mock := &storage.MockDashboardStorage{
		TotalAmountFunc: func(ctx context.Context) (decimal.Decimal, error) {
			return decimal.NewFromInt(9000), nil
		},
		DeliveredAmountBetweenFunc: func(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
			ranges = append(ranges, [2]time.Time{from, to})
			return decimal.NewFromInt(100), nil
		},
	}

	service := NewDashboardService(mock)

	amount, err := service.Amount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !amount.TotalAmount.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("expected total 9000, got %s", amount.TotalAmount)
	}
	if amount.OrdersData == nil {
		t.Error("expected empty orders slice, not nil")
	}

	if len(ranges) != 2 {
		t.Fatalf("expected 2 month queries, got %d", len(ranges))
	}
	// Месячные границы календарные: текущий месяц с первого числа,
	// прошлый месяц заканчивается там, где начинается текущий.
	now := time.Now()
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if !ranges[0][0].Equal(thisMonthStart) {
		t.Errorf("expected this month to start at %v, got %v", thisMonthStart, ranges[0][0])
	}
	if !ranges[1][1].Equal(thisMonthStart) {
		t.Errorf("expected last month to end at %v, got %v", thisMonthStart, ranges[1][1])
	}
	if !ranges[1][0].Equal(thisMonthStart.AddDate(0, -1, 0)) {
		t.Errorf("expected last month to start a calendar month earlier, got %v", ranges[1][0])
	}
}

func TestDashboardRecentOrdersDefaults(t *testing.T) {
	var gotPage, gotLimit int
	mock := &storage.MockDashboardStorage{
		RecentActiveFunc: func(ctx context.Context, page, limit int) ([]*models.Order, int64, error) {
			gotPage, gotLimit = page, limit
			return nil, 0, nil
		},
	}

	service := NewDashboardService(mock)

	resp, err := service.RecentOrders(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPage != 1 || gotLimit != 8 {
		t.Errorf("expected defaults page 1 limit 8, got %d/%d", gotPage, gotLimit)
	}
	if resp.Orders == nil {
		t.Error("expected empty orders slice, not nil")
	}
}

func TestDashboardBestSellers(t *testing.T) {
	mock := &storage.MockDashboardStorage{
		CountAllFunc: func(ctx context.Context) (int64, error) {
			return 10, nil
		},
		BestSellersFunc: func(ctx context.Context, limit int) ([]models.BestSeller, error) {
			if limit != 4 {
				t.Errorf("expected best seller limit 4, got %d", limit)
			}
			return []models.BestSeller{
				{Title: "Widget", Quantity: 12},
				{Title: "Gadget", Quantity: 7},
			}, nil
		},
	}

	service := NewDashboardService(mock)

	resp, err := service.BestSellers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalDoc != 10 {
		t.Errorf("expected total 10, got %d", resp.TotalDoc)
	}
	if len(resp.BestSellingProduct) != 2 || resp.BestSellingProduct[0].Title != "Widget" {
		t.Errorf("unexpected best sellers: %+v", resp.BestSellingProduct)
	}
}

func TestDashboardBestSellersEmpty(t *testing.T) {
	service := NewDashboardService(&storage.MockDashboardStorage{})

	resp, err := service.BestSellers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.BestSellingProduct == nil {
		t.Error("expected empty slice, not nil")
	}
	if len(resp.BestSellingProduct) != 0 {
		t.Errorf("expected no best sellers, got %d", len(resp.BestSellingProduct))
	}
}
