// Package notify dispatches best-effort alerts to a configured channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhima/rural-vitals/internal/logging"
	"go.uber.org/zap"
)

// Channel delivers one alert over a concrete transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, title, message string) error
}

// ErrClosedChannel is returned by channels that refuse every send.
var ErrClosedChannel = errors.New("notification channel unavailable")

// LogChannel writes alerts to the structured log. Modes "none" and "silent".
type LogChannel struct {
	logger logging.Logger
}

func NewLogChannel(logger logging.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Send(_ context.Context, title, message string) error {
	c.logger.Warn("alert", zap.String("title", title), zap.String("message", message))
	return nil
}

// BLEChannel targets a bonded BLE device. Until a radio stack is wired it logs the
// alert against the device address so deployments can verify routing.
type BLEChannel struct {
	device string
	logger logging.Logger
}

func NewBLEChannel(device string, logger logging.Logger) *BLEChannel {
	return &BLEChannel{device: device, logger: logger}
}

func (c *BLEChannel) Name() string { return "ble" }

func (c *BLEChannel) Send(_ context.Context, title, message string) error {
	// TODO: write to the GATT alert characteristic once the wearable firmware exposes one.
	c.logger.Info("ble alert",
		zap.String("device", c.device),
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// closedChannel fails every send. Used for unknown modes and broken configuration.
type closedChannel struct {
	mode  string
	cause error
}

func (c closedChannel) Name() string { return c.mode }

func (c closedChannel) Send(context.Context, string, string) error {
	if c.cause != nil {
		return fmt.Errorf("%w: %v", ErrClosedChannel, c.cause)
	}
	return fmt.Errorf("%w: unknown mode %q", ErrClosedChannel, c.mode)
}

func normalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}
