package models

import "github.com/shopspring/decimal"

// StatusAggregate - количество и сумма заказов в одном статусе.
// При отсутствии заказов значения нулевые, не nil.
type StatusAggregate struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DashboardCount - счётчики для плиток дашборда.
type DashboardCount struct {
	TotalOrder           int64           `json:"totalOrder"`
	TotalPendingOrder    StatusAggregate `json:"totalPendingOrder"`
	TotalProcessingOrder int64           `json:"totalProcessingOrder"`
	TotalDeliveredOrder  int64           `json:"totalDeliveredOrder"`
}

// DashboardAmount - выручка: всего, текущий и прошлый календарный месяц.
// Месячные суммы считаются по updated_at доставленных заказов: выручка
// признаётся в момент доставки, а не оформления.
type DashboardAmount struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ThisMonthAmount decimal.Decimal `json:"thisMonthlyOrderAmount"`
	LastMonthAmount decimal.Decimal `json:"lastMonthOrderAmount"`
	OrdersData      []*Order        `json:"ordersData"`
}

// BestSeller - товар в рейтинге продаж.
type BestSeller struct {
	Title    string `json:"title"`
	Quantity int64  `json:"quantity"`
}

// BestSellerResponse - ответ рейтинга продаж.
type BestSellerResponse struct {
	TotalDoc           int64        `json:"totalDoc"`
	BestSellingProduct []BestSeller `json:"bestSellingProduct"`
}

// RecentOrdersResponse - лента последних активных заказов.
type RecentOrdersResponse struct {
	Orders     []*Order `json:"orders"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalOrder int64    `json:"totalOrder"`
}
