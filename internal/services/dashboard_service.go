package services

import (
	"context"
	"fmt"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/storage"
)

// Окно "недельного" отчёта, как в остальной отчётности - 10 дней.
const weeklyReportDays = 10

const bestSellerLimit = 4

// DashboardService - read-only агрегаты по заказам для дашборда.
type DashboardService interface {
	Count(ctx context.Context) (*models.DashboardCount, error)
	Amount(ctx context.Context) (*models.DashboardAmount, error)
	RecentOrders(ctx context.Context, page, limit int) (*models.RecentOrdersResponse, error)
	BestSellers(ctx context.Context) (*models.BestSellerResponse, error)
	StatusCounts(ctx context.Context, includeTrashed bool) (map[models.OrderStatus]int64, error)
}

// DashboardServiceImpl реализует DashboardService.
type DashboardServiceImpl struct {
	dashboardStorage storage.DashboardStorage
}

// NewDashboardService создаёт сервис дашборда.
func NewDashboardService(dashboardStorage storage.DashboardStorage) *DashboardServiceImpl {
	return &DashboardServiceImpl{dashboardStorage: dashboardStorage}
}

// Count возвращает счётчики для плиток дашборда. На пустой базе все
// значения нулевые.
func (s *DashboardServiceImpl) Count(ctx context.Context) (*models.DashboardCount, error) {
	total, err := s.dashboardStorage.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	pending, err := s.dashboardStorage.StatusAggregate(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("aggregate pending: %w", err)
	}
	processing, err := s.dashboardStorage.StatusAggregate(ctx, models.StatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("aggregate processing: %w", err)
	}
	delivered, err := s.dashboardStorage.StatusAggregate(ctx, models.StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("aggregate delivered: %w", err)
	}

	return &models.DashboardCount{
		TotalOrder:           total,
		TotalPendingOrder:    *pending,
		TotalProcessingOrder: processing.Count,
		TotalDeliveredOrder:  delivered.Count,
	}, nil
}

// Amount возвращает выручку: всего, за текущий и прошлый календарный
// месяц, плюс доставленные заказы за последние 10 дней.
func (s *DashboardServiceImpl) Amount(ctx context.Context) (*models.DashboardAmount, error) {
	total, err := s.dashboardStorage.TotalAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}

	now := time.Now()
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)
	nextMonthStart := thisMonthStart.AddDate(0, 1, 0)

	thisMonth, err := s.dashboardStorage.DeliveredAmountBetween(ctx, thisMonthStart, nextMonthStart)
	if err != nil {
		return nil, fmt.Errorf("this month amount: %w", err)
	}
	lastMonth, err := s.dashboardStorage.DeliveredAmountBetween(ctx, lastMonthStart, thisMonthStart)
	if err != nil {
		return nil, fmt.Errorf("last month amount: %w", err)
	}

	ordersData, err := s.dashboardStorage.DeliveredSince(ctx, now.AddDate(0, 0, -weeklyReportDays))
	if err != nil {
		return nil, fmt.Errorf("weekly delivered orders: %w", err)
	}
	if ordersData == nil {
		ordersData = []*models.Order{}
	}

	return &models.DashboardAmount{
		TotalAmount:     total,
		ThisMonthAmount: thisMonth,
		LastMonthAmount: lastMonth,
		OrdersData:      ordersData,
	}, nil
}

// RecentOrders возвращает ленту недавно обновлённых активных заказов.
func (s *DashboardServiceImpl) RecentOrders(ctx context.Context, page, limit int) (*models.RecentOrdersResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 8
	}

	orders, total, err := s.dashboardStorage.RecentActive(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	return &models.RecentOrdersResponse{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		TotalOrder: total,
	}, nil
}

// BestSellers возвращает топ товаров по суммарному количеству в корзинах.
func (s *DashboardServiceImpl) BestSellers(ctx context.Context) (*models.BestSellerResponse, error) {
	total, err := s.dashboardStorage.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	sellers, err := s.dashboardStorage.BestSellers(ctx, bestSellerLimit)
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}
	if sellers == nil {
		sellers = []models.BestSeller{}
	}

	return &models.BestSellerResponse{
		TotalDoc:           total,
		BestSellingProduct: sellers,
	}, nil
}

// StatusCounts возвращает количество заказов по каждому статусу словаря.
func (s *DashboardServiceImpl) StatusCounts(ctx context.Context, includeTrashed bool) (map[models.OrderStatus]int64, error) {
	counts, err := s.dashboardStorage.StatusCountsDetailed(ctx, includeTrashed)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	return counts, nil
}
