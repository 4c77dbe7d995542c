package alerts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// DefaultStreamMaxLen caps the alert stream so an unread stream cannot grow without bound.
const DefaultStreamMaxLen = 10000

// RedisConfig locates a Redis server.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StreamPublisher appends alerts to a Redis stream.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewStreamPublisher connects to Redis and checks the connection with PING.
func NewStreamPublisher(ctx context.Context, cfg RedisConfig, stream string) (*StreamPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Addr, err)
	}
	return &StreamPublisher{client: client, stream: stream, maxLen: DefaultStreamMaxLen}, nil
}

// Publish appends msg as one stream entry and returns its id.
func (p *StreamPublisher) Publish(ctx context.Context, msg Message) (string, error) {
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: StreamValues(msg),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append to stream %s: %w", p.stream, err)
	}
	return id, nil
}

// Close releases the connection pool.
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

// StreamValues flattens msg into the string fields of a stream entry.
func StreamValues(msg Message) map[string]interface{} {
	return map[string]interface{}{
		"title":   msg.Title,
		"message": msg.Message,
		"sent_at": strconv.FormatInt(msg.SentAt.Unix(), 10),
	}
}
