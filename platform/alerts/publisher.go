package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits alert messages to Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher builds a Kafka publisher that waits for all in-sync replicas.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Publish writes msg keyed by its title so one subject's alerts stay ordered.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Title),
		Value: payload,
		Time:  msg.SentAt,
	})
	if err != nil {
		p.logger.Error("failed to publish alert to Kafka",
			zap.String("topic", p.writer.Topic),
			zap.String("title", msg.Title),
			zap.Error(err))
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	p.logger.Debug("alert published to Kafka",
		zap.String("topic", p.writer.Topic),
		zap.String("title", msg.Title))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
