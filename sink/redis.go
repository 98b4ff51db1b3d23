package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/retry"
)

// ErrEmptyRedisAddress is returned when the Redis address is not configured.
var ErrEmptyRedisAddress = errors.New("redis address is required")

// redisTimeout bounds connection verification and publish calls.
const redisTimeout = 5 * time.Second

// RedisConfig holds Redis sink configuration.
type RedisConfig struct {
	Address  string `yaml:"address"  env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"`
	// Channel is the pub/sub channel prefix; entries publish to
	// "<channel>.<levelname>" so subscribers can filter by severity.
	Channel string `yaml:"channel" env:"REDIS_LOG_CHANNEL"`
	Level   string `yaml:"level"   env:"REDIS_LOG_LEVEL"`
}

// SetDefaults applies default values to the config if not set. The
// address is deliberately not defaulted; an unset address is an error.
func (c *RedisConfig) SetDefaults() {
	if c.Channel == "" {
		c.Channel = "logs"
	}
}

// Redis publishes JSON log payloads to a pub/sub channel per level.
type Redis struct {
	client  *redis.Client
	channel string
	enc     *encoding.JSONEncoder
	min     level.Level
}

// NewRedis creates the Redis sink, verifying the connection with a
// bounded ping retried on transient failures.
func NewRedis(ctx context.Context, cfg RedisConfig, min level.Level) (*Redis, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyRedisAddress
	}
	cfg.SetDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := retry.WithDefaults(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{
		client:  client,
		channel: cfg.Channel,
		enc:     encoding.NewJSONEncoder(),
		min:     min,
	}, nil
}

// Emit publishes the entry to "<channel>.<levelname>".
func (r *Redis) Emit(e *encoding.Entry) error {
	payload, err := r.enc.Encode(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	channel := r.channel + "." + e.Level.Lower()
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

// MinLevel returns the sink threshold.
func (r *Redis) MinLevel() level.Level { return r.min }

// Sync is a no-op; publishes are not buffered client-side.
func (r *Redis) Sync() error { return nil }

// Close closes the Redis client.
func (r *Redis) Close() error { return r.client.Close() }
