package ndbc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// Source provides buoy observations. Implemented by Client and decorated by
// CachedSource.
type Source interface {
	Latest(ctx context.Context) (domain.Observation, error)
	Recent(ctx context.Context) ([]domain.Observation, error)
}

// Client fetches realtime2 standard meteorological data for one NDBC station.
type Client struct {
	stationID string
	http      *resty.Client
	logger    *slog.Logger
}

// NewClient creates an NDBC client for the given station.
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

// Recent fetches the station's realtime2 file and parses every usable row,
// newest first. The file covers roughly the trailing 45 days.
func (c *Client) Recent(ctx context.Context) ([]domain.Observation, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/data/realtime2/%s.txt", c.stationID))
	if err != nil {
		return nil, &domain.UpstreamError{Source: "ndbc", Err: err}
	}
	if resp.IsError() {
		return nil, &domain.UpstreamError{
			Source: "ndbc",
			Err:    fmt.Errorf("status %d", resp.StatusCode()),
		}
	}

	observations, err := domain.ParseBuoyReport(resp.String())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched buoy report",
		"station", c.stationID, "rows", len(observations))
	return observations, nil
}

// Latest fetches the most recent observation for the station.
func (c *Client) Latest(ctx context.Context) (domain.Observation, error) {
	observations, err := c.Recent(ctx)
	if err != nil {
		return domain.Observation{}, err
	}
	return observations[0], nil
}
