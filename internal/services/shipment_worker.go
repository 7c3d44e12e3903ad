package services

import (
	"context"
	"log"
	"time"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/agamariel/orderdesk/internal/tracking"
)

// carrierStatuses - маппинг статусов перевозчика на словарь доставки.
var carrierStatuses = map[string]models.DeliveryStatus{
	"LABEL_CREATED":    models.DeliveryLabelCreated,
	"IN_TRANSIT":       models.DeliveryInTransit,
	"OUT_FOR_DELIVERY": models.DeliveryOutForDelivery,
	"DELIVERED":        models.DeliveryDelivered,
	"EXCEPTION":        models.DeliveryException,
	"RETURNED":         models.DeliveryReturned,
}

// ShipmentWorker периодически сверяет открытые отгрузки с сервисом
// перевозчика и обновляет состояние посылок.
type ShipmentWorker struct {
	shipmentStorage storage.ShipmentStorage
	client          tracking.CarrierClient
	interval        time.Duration
	logger          *log.Logger
}

func NewShipmentWorker(shipmentStorage storage.ShipmentStorage, client tracking.CarrierClient, interval time.Duration, logger *log.Logger) *ShipmentWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ShipmentWorker{
		shipmentStorage: shipmentStorage,
		client:          client,
		interval:        interval,
		logger:          logger,
	}
}

// Start запускает воркер в отдельной горутине и останавливается по ctx.Done().
func (w *ShipmentWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		if err := w.processBatch(ctx); err != nil {
			w.logger.Printf("shipment worker error on initial batch: %v", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.processBatch(ctx); err != nil {
					w.logger.Printf("shipment worker error: %v", err)
				}
			}
		}
	}()
}

func (w *ShipmentWorker) processBatch(ctx context.Context) error {
	shipments, err := w.shipmentStorage.GetOpen(ctx)
	if err != nil {
		w.logger.Printf("failed to get open shipments: %v", err)
		return err
	}

	if len(shipments) > 0 {
		w.logger.Printf("syncing %d open shipments", len(shipments))
	}

	for _, sh := range shipments {
		if err := w.processShipment(ctx, sh); err != nil {
			w.logger.Printf("sync shipment %s error: %v", sh.TrackingNumber, err)
		}
	}
	return nil
}

func (w *ShipmentWorker) processShipment(ctx context.Context, shipment *models.Shipment) error {
	resp, err := w.client.GetTracking(ctx, shipment.TrackingNumber)
	if err != nil {
		if rl, ok := err.(tracking.RateLimitError); ok {
			w.logger.Printf("rate limited for %s, retrying after %s", shipment.TrackingNumber, rl.RetryAfter)
			time.Sleep(rl.RetryAfter)
			return nil
		}
		if err == tracking.ErrNotFound {
			w.logger.Printf("tracking %s not found at carrier, skipping", shipment.TrackingNumber)
			return nil
		}
		return err
	}

	newStatus, ok := carrierStatuses[resp.Status]
	if !ok {
		w.logger.Printf("unknown carrier status %q for %s", resp.Status, shipment.TrackingNumber)
		return nil
	}
	if newStatus == shipment.Status {
		return nil
	}

	w.logger.Printf("shipment %s: %s -> %s", shipment.TrackingNumber, shipment.Status, newStatus)

	var actualDelivery *time.Time
	if newStatus == models.DeliveryDelivered {
		actualDelivery = resp.DeliveredAt
		if actualDelivery == nil {
			now := time.Now()
			actualDelivery = &now
		}
	}

	return w.shipmentStorage.UpdateDeliveryStatus(ctx, shipment.ID, newStatus, actualDelivery)
}
