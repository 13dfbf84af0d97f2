package database

import (
	"context"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/feedback/backend/config"
)

// ErrRedisNotConfigured means REDIS_URL is empty and callers should fall
// back to process-local state.
var ErrRedisNotConfigured = errors.New("redis is not configured")

// NewRedisClient creates a Redis client from REDIS_URL and pings it
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, ErrRedisNotConfigured
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing Redis URL")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "connecting to Redis")
	}

	grip.Info(message.Fields{
		"message": "connected to Redis",
		"addr":    opts.Addr,
		"db":      opts.DB,
	})
	return client, nil
}
