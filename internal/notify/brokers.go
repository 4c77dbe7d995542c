package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhima/rural-vitals/platform/alerts"
	"github.com/dhima/rural-vitals/pkg/clock"
)

// mqttPublisher is the slice of the MQTT client the channel needs.
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTChannel publishes alerts as JSON to an MQTT topic.
type MQTTChannel struct {
	client mqttPublisher
	topic  string
	qos    byte
	clock  clock.Clock
}

func NewMQTTChannel(client mqttPublisher, topic string, qos byte, clk clock.Clock) (*MQTTChannel, error) {
	if topic == "" {
		return nil, errors.New("mqtt topic is required")
	}
	if qos > 2 {
		return nil, fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", qos)
	}
	return &MQTTChannel{client: client, topic: topic, qos: qos, clock: clk}, nil
}

func (c *MQTTChannel) Name() string { return "mqtt" }

func (c *MQTTChannel) Send(ctx context.Context, title, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := alerts.Message{Title: title, Message: message, SentAt: c.clock.Now().UTC()}.Encode()
	if err != nil {
		return err
	}

	// paho waits for the broker ack; ctx bounds the wait.
	done := make(chan error, 1)
	go func() { done <- c.client.Publish(c.topic, c.qos, false, payload) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// kafkaPublisher is satisfied by alerts.Publisher.
type kafkaPublisher interface {
	Publish(ctx context.Context, msg alerts.Message) error
}

// KafkaChannel publishes alerts to a Kafka topic.
type KafkaChannel struct {
	publisher kafkaPublisher
	clock     clock.Clock
}

func NewKafkaChannel(publisher kafkaPublisher, clk clock.Clock) *KafkaChannel {
	return &KafkaChannel{publisher: publisher, clock: clk}
}

func (c *KafkaChannel) Name() string { return "kafka" }

func (c *KafkaChannel) Send(ctx context.Context, title, message string) error {
	return c.publisher.Publish(ctx, alerts.Message{Title: title, Message: message, SentAt: c.clock.Now().UTC()})
}

// streamPublisher is satisfied by alerts.StreamPublisher.
type streamPublisher interface {
	Publish(ctx context.Context, msg alerts.Message) (string, error)
}

// RedisStreamChannel appends alerts to a Redis stream for downstream consumers.
type RedisStreamChannel struct {
	publisher streamPublisher
	clock     clock.Clock
}

func NewRedisStreamChannel(publisher streamPublisher, clk clock.Clock) *RedisStreamChannel {
	return &RedisStreamChannel{publisher: publisher, clock: clk}
}

func (c *RedisStreamChannel) Name() string { return "redis" }

func (c *RedisStreamChannel) Send(ctx context.Context, title, message string) error {
	_, err := c.publisher.Publish(ctx, alerts.Message{Title: title, Message: message, SentAt: c.clock.Now().UTC()})
	return err
}
