package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatabaseURL string

	// NDBC buoy source configuration.
	BuoyStationID string
	NDBCBaseURL   string
	NDBCTimeout   time.Duration
	BuoyCacheTTL  time.Duration

	// CO-OPS tide source configuration.
	TideStationID string
	CoopsBaseURL  string
	CoopsTimeout  time.Duration
	TideDays      int

	// NWS forecast source configuration.
	NWSForecastURL string
	NWSUserAgent   string
	NWSTimeout     time.Duration
	ForecastDays   int

	// Trend analysis and prediction windows.
	HistoryDays    int
	PredictionDays int

	// Kafka report publication.
	KafkaBrokers     []string
	KafkaReportTopic string
	KafkaEnabled     bool

	// Per-stage deadlines.
	FetchStageTimeout  time.Duration
	ReportStageTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	ndbcTimeout, err := parsePositiveDuration("NDBC_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	buoyCacheTTL, err := parsePositiveDuration("BUOY_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	coopsTimeout, err := parsePositiveDuration("COOPS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	nwsTimeout, err := parsePositiveDuration("NWS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parsePositiveDuration("FETCH_STAGE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	reportTimeout, err := parsePositiveDuration("REPORT_STAGE_TIMEOUT", "120s")
	if err != nil {
		return nil, err
	}

	tideDays, err := parseBoundedInt("TIDE_DAYS", 7, 1, 31)
	if err != nil {
		return nil, err
	}
	forecastDays, err := parseBoundedInt("FORECAST_DAYS", 7, 1, 7)
	if err != nil {
		return nil, err
	}
	historyDays, err := parseBoundedInt("HISTORY_DAYS", 30, 7, 365)
	if err != nil {
		return nil, err
	}
	predictionDays, err := parseBoundedInt("PREDICTION_DAYS", 7, 1, 7)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: envOrDefault("DATABASE_URL", "postgres://localhost:5432/surf?sslmode=disable"),

		BuoyStationID: envOrDefault("BUOY_STATION_ID", "44025"),
		NDBCBaseURL:   envOrDefault("NDBC_BASE_URL", "https://www.ndbc.noaa.gov"),
		NDBCTimeout:   ndbcTimeout,
		BuoyCacheTTL:  buoyCacheTTL,

		TideStationID: envOrDefault("TIDE_STATION_ID", "8531680"),
		CoopsBaseURL:  envOrDefault("COOPS_BASE_URL", "https://api.tidesandcurrents.noaa.gov"),
		CoopsTimeout:  coopsTimeout,
		TideDays:      tideDays,

		NWSForecastURL: envOrDefault("NWS_FORECAST_URL", "https://api.weather.gov/gridpoints/PHI/60,75/forecast"),
		NWSUserAgent:   envOrDefault("NWS_USER_AGENT", "surf-vista (ops@surf-vista.example)"),
		NWSTimeout:     nwsTimeout,
		ForecastDays:   forecastDays,

		HistoryDays:    historyDays,
		PredictionDays: predictionDays,

		KafkaBrokers:     brokers,
		KafkaReportTopic: envOrDefault("KAFKA_REPORT_TOPIC", "surf-reports"),
		KafkaEnabled:     kafkaEnabled,

		FetchStageTimeout:  fetchTimeout,
		ReportStageTimeout: reportTimeout,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.BuoyStationID == "" {
		return nil, errors.New("BUOY_STATION_ID is required")
	}
	if cfg.TideStationID == "" {
		return nil, errors.New("TIDE_STATION_ID is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBoundedInt(key string, fallback, min, max int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s: must be an integer in [%d,%d]", key, min, max)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
