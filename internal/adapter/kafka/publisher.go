package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lydonmn/surf-vista/internal/config"
	"github.com/lydonmn/surf-vista/internal/domain"
)

// Publisher produces finished surf reports to a Kafka topic so downstream
// consumers (site renderer, notification fan-out) see every generated or
// refreshed report. It implements pipeline.ReportPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured report topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishReport serializes and publishes one surf report. The date keys the
// message, so a topic compacted by key retains the latest version per day.
func (p *Publisher) PublishReport(ctx context.Context, report domain.SurfReport) error {
	msg, err := serializeReport(report)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish surf report: %w", err)
	}
	p.logger.Info("published surf report",
		"date", report.Date.Format("2006-01-02"), "rating", report.Rating)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeReport marshals a SurfReport into a Kafka message.
func serializeReport(report domain.SurfReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize surf report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.Date.Format("2006-01-02")),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "rating", Value: []byte(strconv.Itoa(report.Rating))},
			{Key: "updated_at", Value: []byte(report.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}
