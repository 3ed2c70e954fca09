package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/countnum/internal/storage"
)

// Counter is a Redis-backed fixed window hit counter
type Counter struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis counter and verifies the connection
func New(cfg Config) (*Counter, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Counter{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis counter with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Counter {
	return &Counter{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (c *Counter) Close() error {
	return c.client.Close()
}

// Ensure Counter implements the interface
var _ storage.Counter = (*Counter)(nil)

// Hit increments the counter for key and returns the count within the
// current window. The window starts at the first hit.
func (c *Counter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.counterKey(key)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	// A counter without expiry is either new or lost its EXPIRE
	if ttl.Val() < 0 {
		if err := c.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, err
		}
	}

	return incr.Val(), nil
}

// Remaining returns how long until the window for key resets
func (c *Counter) Remaining(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.PTTL(ctx, c.counterKey(key)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
