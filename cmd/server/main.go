package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lydonmn/surf-vista/internal/adapter/coops"
	"github.com/lydonmn/surf-vista/internal/adapter/httpapi"
	kafkaadapter "github.com/lydonmn/surf-vista/internal/adapter/kafka"
	"github.com/lydonmn/surf-vista/internal/adapter/ndbc"
	"github.com/lydonmn/surf-vista/internal/adapter/nws"
	"github.com/lydonmn/surf-vista/internal/adapter/postgres"
	"github.com/lydonmn/surf-vista/internal/config"
	"github.com/lydonmn/surf-vista/internal/observability"
	"github.com/lydonmn/surf-vista/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close() //nolint:errcheck // process is exiting

	store := postgres.NewStore(db, logger)
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureSchema(schemaCtx); err != nil {
		cancelSchema()
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	cancelSchema()

	buoyClient := ndbc.NewClient(cfg.NDBCBaseURL, cfg.BuoyStationID, cfg.NDBCTimeout, logger)
	buoy := ndbc.NewCachedSource(buoyClient, cfg.BuoyCacheTTL, metrics)
	tides := coops.NewClient(cfg.CoopsBaseURL, cfg.TideStationID, cfg.CoopsTimeout, logger)
	weather := nws.NewClient(cfg.NWSForecastURL, cfg.NWSUserAgent, cfg.NWSTimeout, logger)

	// Report publication is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.ReportPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("report publishing disabled")
	}

	orchestrator := pipeline.New(buoy, tides, weather, store, publisher, logger, metrics,
		pipeline.Settings{
			TideDays:       cfg.TideDays,
			ForecastDays:   cfg.ForecastDays,
			HistoryDays:    cfg.HistoryDays,
			PredictionDays: cfg.PredictionDays,
			FetchTimeout:   cfg.FetchStageTimeout,
			ReportTimeout:  cfg.ReportStageTimeout,
		})

	srv := httpapi.NewServer(cfg.HTTPAddr, orchestrator, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
