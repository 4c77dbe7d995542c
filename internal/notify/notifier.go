package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/dhima/rural-vitals/pkg/config"
	"github.com/dhima/rural-vitals/platform/alerts"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultTimeout = 5 * time.Second

// Notifier sends alerts over one channel. Send never fails the caller: every
// problem is logged and reported as false.
type Notifier struct {
	channel     Channel
	timeout     time.Duration
	minInterval time.Duration
	clock       clock.Clock
	logger      logging.Logger
	closers     []func()

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithTimeout bounds each send.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithMinInterval drops repeats of the same title sent sooner than d after the last one.
func WithMinInterval(d time.Duration) Option {
	return func(n *Notifier) { n.minInterval = d }
}

// WithClock injects the clock used for rate limiting and message timestamps.
func WithClock(c clock.Clock) Option {
	return func(n *Notifier) { n.clock = c }
}

// NewNotifier wraps an already built channel.
func NewNotifier(ch Channel, logger logging.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		channel:  ch,
		timeout:  defaultTimeout,
		clock:    clock.RealClock{},
		logger:   logger.With(zap.String("component", "notify"), zap.String("channel", ch.Name())),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// New selects the channel named by cfg.Mode. Unknown modes and channels that
// cannot be constructed fail closed: every send returns false.
func New(cfg config.Alerts, logger logging.Logger, opts ...Option) *Notifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts = append([]Option{
		WithTimeout(timeout),
		WithMinInterval(time.Duration(cfg.MinIntervalSeconds) * time.Second),
	}, opts...)

	n := NewNotifier(closedChannel{mode: cfg.Mode}, logger, opts...)

	ch, closer, err := buildChannel(cfg, n.clock, n.timeout, logger)
	if err != nil {
		logger.Error("notification channel unavailable, alerts disabled",
			zap.String("mode", cfg.Mode),
			zap.Error(err))
		ch = closedChannel{mode: cfg.Mode, cause: err}
	}

	n.channel = ch
	n.logger = logger.With(zap.String("component", "notify"), zap.String("channel", ch.Name()))
	if closer != nil {
		n.closers = append(n.closers, closer)
	}
	return n
}

func buildChannel(cfg config.Alerts, clk clock.Clock, timeout time.Duration, logger logging.Logger) (Channel, func(), error) {
	switch mode := normalizeMode(cfg.Mode); mode {
	case "", "none", "silent", "log":
		return NewLogChannel(logger), nil, nil
	case "ble":
		return NewBLEChannel(cfg.Device, logger), nil, nil
	case "sms":
		ch, err := NewSMSChannel(cfg.GatewayURL, cfg.APIKey, cfg.Sender, cfg.Recipients, timeout)
		return ch, nil, err
	case "mqtt":
		if cfg.Broker == "" {
			return nil, nil, fmt.Errorf("mqtt broker is required")
		}
		clientID := cfg.ClientID
		if clientID == "" {
			clientID = "rural-vitals"
		}
		client, err := alerts.NewMQTTClient(alerts.MQTTConfig{
			Broker:   cfg.Broker,
			ClientID: clientID,
			Username: cfg.Username,
			Password: cfg.Password,
		}, timeout)
		if err != nil {
			return nil, nil, err
		}
		ch, err := NewMQTTChannel(client, cfg.Topic, cfg.QoS, clk)
		if err != nil {
			client.Disconnect()
			return nil, nil, err
		}
		return ch, client.Disconnect, nil
	case "kafka":
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, nil, fmt.Errorf("kafka brokers and topic are required")
		}
		pub := alerts.NewPublisher(cfg.Brokers, cfg.Topic, logging.Zap(logger))
		return NewKafkaChannel(pub, clk), func() { _ = pub.Close() }, nil
	case "redis":
		if cfg.Addr == "" {
			return nil, nil, fmt.Errorf("redis addr is required")
		}
		stream := cfg.Stream
		if stream == "" {
			stream = "vitals:alerts"
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		pub, err := alerts.NewStreamPublisher(ctx, alerts.RedisConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}, stream)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStreamChannel(pub, clk), func() { _ = pub.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown alerts mode %q", cfg.Mode)
	}
}

// Channel returns the active channel name.
func (n *Notifier) Channel() string { return n.channel.Name() }

// Send delivers one alert. It returns false when the channel fails, the send
// times out, or the title was already sent within the minimum interval.
func (n *Notifier) Send(ctx context.Context, title, message string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("notification channel panicked", zap.Any("panic", r), zap.String("title", title))
			ok = false
		}
	}()

	if !n.allow(title) {
		n.logger.Debug("notification suppressed by rate limit", zap.String("title", title))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.channel.Send(ctx, title, message); err != nil {
		n.logger.Warn("failed to send notification",
			zap.String("title", title),
			zap.Error(err))
		return false
	}
	return true
}

func (n *Notifier) allow(title string) bool {
	if n.minInterval <= 0 {
		return true
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	limiter, ok := n.limiters[title]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(n.minInterval), 1)
		n.limiters[title] = limiter
	}
	return limiter.AllowN(n.clock.Now(), 1)
}

// Close releases broker connections held by the channel.
func (n *Notifier) Close() {
	for _, c := range n.closers {
		c()
	}
}
