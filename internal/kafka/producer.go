package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/wifiscout/scan-ingestion/internal/config"
)

// NetworkIngestedEvent is published after a record is persisted.
type NetworkIngestedEvent struct {
	SubmissionID string `json:"submission_id"`
	BSSID        string `json:"bssid"`
	SSID         string `json:"ssid"`
	Frequency    int64  `json:"frequency"`
	RSSI         int64  `json:"rssi"`
	IngestedAt   int64  `json:"ingested_at"`
}

// BatchCompletedEvent is published once per processed batch submission.
type BatchCompletedEvent struct {
	SubmissionID string `json:"submission_id"`
	Total        int    `json:"total"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	CompletedAt  int64  `json:"completed_at"`
}

// Producer publishes ingestion events.
type Producer interface {
	PublishNetworkIngested(ctx context.Context, event NetworkIngestedEvent) error
	PublishBatchCompleted(ctx context.Context, event BatchCompletedEvent) error
	Close() error
}

// NewProducer creates the event producer from configuration. When Kafka is
// disabled the returned producer discards events.
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) (Producer, error) {
	if !cfg.Enabled {
		return noopProducer{}, nil
	}

	p := &kafkaProducer{
		cfg:    cfg,
		logger: logger,
		writers: map[string]*kafka.Writer{
			cfg.Topics.NetworkIngested: newWriter(cfg, cfg.Topics.NetworkIngested),
			cfg.Topics.BatchCompleted:  newWriter(cfg, cfg.Topics.BatchCompleted),
		},
	}
	return p, nil
}

func newWriter(cfg config.KafkaConfig, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		WriteTimeout: cfg.ProducerTimeout,
		RequiredAcks: kafka.RequireAll,
	}
}

type kafkaProducer struct {
	cfg     config.KafkaConfig
	logger  *zap.Logger
	writers map[string]*kafka.Writer
}

func (p *kafkaProducer) PublishNetworkIngested(ctx context.Context, event NetworkIngestedEvent) error {
	return p.publish(ctx, p.cfg.Topics.NetworkIngested, event.BSSID, event)
}

func (p *kafkaProducer) PublishBatchCompleted(ctx context.Context, event BatchCompletedEvent) error {
	return p.publish(ctx, p.cfg.Topics.BatchCompleted, event.SubmissionID, event)
}

func (p *kafkaProducer) publish(ctx context.Context, topic, key string, event any) error {
	writer, ok := p.writers[topic]
	if !ok {
		return fmt.Errorf("no writer configured for topic %s", topic)
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.Debug("event published", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *kafkaProducer) Close() error {
	var firstErr error
	for _, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type noopProducer struct{}

func (noopProducer) PublishNetworkIngested(context.Context, NetworkIngestedEvent) error {
	return nil
}

func (noopProducer) PublishBatchCompleted(context.Context, BatchCompletedEvent) error {
	return nil
}

func (noopProducer) Close() error { return nil }
