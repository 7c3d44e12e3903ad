package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/storage"
)

// ExportFields - колонки CSV-выгрузки в фиксированном порядке.
var ExportFields = []string{
	"Order ID",
	"Invoice",
	"Customer Name",
	"Customer Email",
	"Order Date",
	"Order Time",
	"Status",
	"Payment Method",
	"Sub Total",
	"Discount",
	"Shipping Cost",
	"Total",
	"Shipment Tracking",
	"Origin",
	"Address",
	"City",
	"Country",
	"Zip Code",
	"Contact",
}

// ExportService выгружает заказы в CSV.
type ExportService interface {
	WriteCSV(ctx context.Context, w io.Writer, filter models.OrderFilter) error
}

// ExportServiceImpl реализует ExportService.
type ExportServiceImpl struct {
	orderStorage storage.OrderStorage
}

// NewExportService создаёт сервис выгрузки.
func NewExportService(orderStorage storage.OrderStorage) *ExportServiceImpl {
	return &ExportServiceImpl{orderStorage: orderStorage}
}

// FormatForExport разворачивает заказ в плоскую запись для CSV.
// Отсутствующие необязательные поля - пустые строки, не "null".
// Сериализация - забота вызывающего, здесь только ключ-значение.
func FormatForExport(order *models.Order) map[string]string {
	record := map[string]string{
		"Order ID":          order.Code,
		"Invoice":           "",
		"Customer Name":     order.CustomerInfo.Name,
		"Customer Email":    order.CustomerInfo.Email,
		"Order Date":        "",
		"Order Time":        "",
		"Status":            string(order.Status),
		"Payment Method":    order.PaymentMethod,
		"Sub Total":         order.SubTotal.String(),
		"Discount":          order.Discount.String(),
		"Shipping Cost":     order.ShippingCost.String(),
		"Total":             order.Total.String(),
		"Shipment Tracking": order.ShipmentTracking,
		"Origin":            order.Origin,
		"Address":           order.CustomerInfo.Address,
		"City":              order.CustomerInfo.City,
		"Country":           order.CustomerInfo.Country,
		"Zip Code":          order.CustomerInfo.ZipCode,
		"Contact":           order.CustomerInfo.Contact,
	}

	if order.Invoice > 0 {
		record["Invoice"] = fmt.Sprintf("%d", order.Invoice)
	}
	if !order.CreatedAt.IsZero() {
		record["Order Date"] = order.CreatedAt.Format("01/02/2006")
		record["Order Time"] = order.CreatedAt.Format("3:04:05 PM")
	}

	return record
}

// WriteCSV пишет выгрузку по фильтру в w. Пагинация для выгрузки не
// применяется - выбираются все совпадения.
func (s *ExportServiceImpl) WriteCSV(ctx context.Context, w io.Writer, filter models.OrderFilter) error {
	filter.Page = 1
	filter.Limit = exportBatchLimit

	orders, _, err := s.orderStorage.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("export orders: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportFields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(ExportFields))
	for _, order := range orders {
		record := FormatForExport(order)
		for i, field := range ExportFields {
			row[i] = record[field]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Верхняя граница выборки для выгрузки, чтобы не удерживать в памяти
// неограниченный результат.
const exportBatchLimit = 100000
