package redis

// Key patterns for Redis storage
const (
	rateLimitKeyPrefix = "ratelimit:"
)

func (c *Counter) counterKey(key string) string {
	if c.cfg.KeyPrefix == "" {
		return rateLimitKeyPrefix + key
	}
	return c.cfg.KeyPrefix + ":" + rateLimitKeyPrefix + key
}
