package coops

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// dateLayout is the begin/end date format of the CO-OPS data API.
const dateLayout = "20060102"

// Client fetches high/low tide predictions from the NOAA CO-OPS data API for
// one station.
type Client struct {
	stationID string
	http      *resty.Client
	logger    *slog.Logger
}

// NewClient creates a CO-OPS client for the given tide station.
func NewClient(baseURL, stationID string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{
		stationID: stationID,
		http:      httpClient,
		logger:    logger,
	}
}

// Predictions fetches hilo tide predictions covering [start, start+days).
// Timestamps come back in the station's local time zone.
func (c *Client) Predictions(ctx context.Context, start time.Time, days int) ([]domain.TideEvent, error) {
	end := start.AddDate(0, 0, days-1)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"product":     "predictions",
			"application": "surf-vista",
			"begin_date":  start.Format(dateLayout),
			"end_date":    end.Format(dateLayout),
			"datum":       "MLLW",
			"station":     c.stationID,
			"time_zone":   "lst_ldt",
			"units":       "english",
			"interval":    "hilo",
			"format":      "json",
		}).
		Get("/api/prod/datagetter")
	if err != nil {
		return nil, &domain.UpstreamError{Source: "coops", Err: err}
	}
	if resp.IsError() {
		return nil, &domain.UpstreamError{
			Source: "coops",
			Err:    fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	events, err := domain.ParseTidePredictions(resp.Body())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched tide predictions",
		"station", c.stationID, "events", len(events))
	return events, nil
}
