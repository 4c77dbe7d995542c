package alerts

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewPublisher_WhenCreated_ThenReturnsPublisherWithWriter(t *testing.T) {
	// Arrange
	brokers := []string{"localhost:9092"}
	topic := "vitals-alerts"

	// Act
	publisher := NewPublisher(brokers, topic, zap.NewNop())

	// Assert
	if publisher == nil {
		t.Fatal("expected publisher to be non-nil")
	}
	if publisher.writer == nil {
		t.Fatal("expected writer to be non-nil")
	}
	if publisher.writer.Topic != topic {
		t.Errorf("expected topic '%s', got '%s'", topic, publisher.writer.Topic)
	}
}

func TestNewPublisher_WhenCreatedWithMultipleBrokers_ThenConfiguresCorrectly(t *testing.T) {
	// Arrange
	brokers := []string{"broker1:9092", "broker2:9092", "broker3:9092"}

	// Act
	publisher := NewPublisher(brokers, "vitals-alerts", zap.NewNop())

	// Assert
	if publisher.writer.Addr.String() != "broker1:9092,broker2:9092,broker3:9092" {
		t.Errorf("unexpected broker configuration: %s", publisher.writer.Addr.String())
	}
}

func TestNewPublisher_WhenCreated_ThenHasProductionSettings(t *testing.T) {
	// Act
	publisher := NewPublisher([]string{"localhost:9092"}, "vitals-alerts", zap.NewNop())

	// Assert
	if publisher.writer.RequiredAcks != -1 { // RequireAll = -1
		t.Errorf("expected RequiredAcks to be -1 (all), got %d", publisher.writer.RequiredAcks)
	}
	if publisher.writer.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts to be 3, got %d", publisher.writer.MaxAttempts)
	}
	if publisher.writer.WriteTimeout != 10*time.Second {
		t.Errorf("expected WriteTimeout to be 10s, got %v", publisher.writer.WriteTimeout)
	}
}

func TestPublish_WhenContextCanceled_ThenReturnsError(t *testing.T) {
	// Arrange
	publisher := NewPublisher([]string{"127.0.0.1:1"}, "vitals-alerts", zap.NewNop())
	defer publisher.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err := publisher.Publish(ctx, Message{Title: "HR CB-001", Message: "hr=140.0 bpm out of range", SentAt: time.Now()})

	// Assert
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestMessage_Encode_WhenMarshaled_ThenUsesSnakeCaseKeys(t *testing.T) {
	// Arrange
	msg := Message{Title: "RESP CB-002", Message: "br=31.0 rpm out of range", SentAt: time.Date(2025, 11, 6, 10, 30, 0, 0, time.UTC)}

	// Act
	data, err := msg.Encode()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if decoded["title"] != "RESP CB-002" {
		t.Errorf("expected title key, got %v", decoded)
	}
	if decoded["sent_at"] != "2025-11-06T10:30:00Z" {
		t.Errorf("expected sent_at in RFC3339, got %v", decoded["sent_at"])
	}
}
