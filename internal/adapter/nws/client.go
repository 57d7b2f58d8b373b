package nws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// Client fetches the gridpoint forecast from the National Weather Service API.
// The NWS API requires an identifying User-Agent on every request.
type Client struct {
	forecastURL string
	http        *resty.Client
	logger      *slog.Logger
}

// NewClient creates an NWS client for one gridpoint forecast URL.
func NewClient(forecastURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/geo+json")
	return &Client{
		forecastURL: forecastURL,
		http:        httpClient,
		logger:      logger,
	}
}

// Forecast fetches and parses the gridpoint forecast periods.
func (c *Client) Forecast(ctx context.Context) ([]domain.ForecastPeriod, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.forecastURL)
	if err != nil {
		return nil, &domain.UpstreamError{Source: "nws", Err: err}
	}
	if resp.IsError() {
		return nil, &domain.UpstreamError{
			Source: "nws",
			Err:    fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	periods, err := domain.ParseForecastPeriods(resp.Body())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched weather forecast", "periods", len(periods))
	return periods, nil
}
