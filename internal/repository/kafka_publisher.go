package repository

import (
	"context"

	"GoldGate/internal/domain/models"
	domsvc "GoldGate/internal/domain/service"
	"GoldGate/pkg/config"
	"GoldGate/pkg/kafka"
)

// KafkaSignalPublisher ships generated signals to the audit topic. Keyed by
// signal ID so replays of the same signal land in one partition.
type KafkaSignalPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaSignalPublisher builds the publisher, or (nil, nil) when Kafka is
// disabled in config.
func NewKafkaSignalPublisher(cfg *config.Config) (*KafkaSignalPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := kafka.NewProducer(
		kafka.WithBrokers(cfg.Kafka.Brokers),
		kafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		kafka.WithCompression(cfg.Kafka.Compression),
		kafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		kafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		kafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, err
	}

	return &KafkaSignalPublisher{producer: producer, topic: cfg.Kafka.Topic}, nil
}

// PublishSignal emits one signal record.
func (p *KafkaSignalPublisher) PublishSignal(ctx context.Context, sig models.TradingSignal) error {
	return p.producer.Publish(ctx, p.topic, []byte(sig.ID), sig)
}

// Close releases the underlying writer.
func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}

var _ domsvc.SignalPublisher = (*KafkaSignalPublisher)(nil)
