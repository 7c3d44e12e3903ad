// Package tracking - клиент сервиса трекинга перевозчика.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrNotFound    = errors.New("tracking info not found")
	ErrRateLimited = errors.New("tracking service rate limited")
)

// RateLimitError содержит паузу, которую рекомендует сервис.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// TrackingResponse описывает ответ сервиса трекинга.
type TrackingResponse struct {
	TrackingNumber string     `json:"trackingNumber"`
	Status         string     `json:"status"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

// CarrierClient интерфейс получения статуса посылки у перевозчика.
type CarrierClient interface {
	GetTracking(ctx context.Context, trackingNumber string) (*TrackingResponse, error)
}

type HTTPCarrierClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPCarrierClient создаёт HTTP-клиент трекинга.
func NewHTTPCarrierClient(baseURL string, timeout time.Duration) *HTTPCarrierClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPCarrierClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetTracking запрашивает состояние посылки по трек-номеру.
func (c *HTTPCarrierClient) GetTracking(ctx context.Context, trackingNumber string) (*TrackingResponse, error) {
	endpoint := fmt.Sprintf("%s/api/tracking/%s", c.baseURL, url.PathEscape(trackingNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var tr TrackingResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return nil, fmt.Errorf("decode tracking response: %w", err)
		}
		return &tr, nil

	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrNotFound

	case http.StatusTooManyRequests:
		retryAfter := 60 * time.Second
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return nil, RateLimitError{RetryAfter: retryAfter}

	default:
		return nil, fmt.Errorf("unexpected tracking status code: %d", resp.StatusCode)
	}
}
