package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store with keys that expire after the window, so several
// bot instances share one view.
type Redis struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedis connects to redisURL and checks the connection.
func NewRedis(ctx context.Context, redisURL string, window time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, window: window, prefix: "oscar:dedupe:"}, nil
}

// Seen reports whether the key still exists.
func (r *Redis) Seen(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("checking dedupe key: %w", err)
	}
	return n > 0, nil
}

// Record sets the key with the window as its TTL.
func (r *Redis) Record(ctx context.Context, key string) error {
	if err := r.client.Set(ctx, r.prefix+key, time.Now().Unix(), r.window).Err(); err != nil {
		return fmt.Errorf("recording dedupe key: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
