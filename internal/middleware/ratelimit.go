package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/countnum/internal/storage"
)

// RateLimitConfig bounds how many requests one client may make per window
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// TrustedProxies whose forwarding headers identify the client
	TrustedProxies TrustedProxies
}

// Enabled reports whether the config describes an actual limit
func (c RateLimitConfig) Enabled() bool {
	return c.Requests > 0 && c.Window > 0
}

// windowReporter is implemented by counters that can tell when a key's window resets
type windowReporter interface {
	Remaining(ctx context.Context, key string) (time.Duration, error)
}

// LimitHandler writes the response for a rejected request
type LimitHandler func(w http.ResponseWriter, r *http.Request)

// DefaultLimitHandler returns a plain 429 Too Many Requests
func DefaultLimitHandler(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
}

// RateLimit creates per-client rate limiting middleware keyed on the client
// address as resolved through cfg.TrustedProxies.
// If the counter fails the request is let through and the error is logged.
func RateLimit(counter storage.Counter, cfg RateLimitConfig, logger *slog.Logger, handler LimitHandler) func(http.Handler) http.Handler {
	if handler == nil {
		handler = DefaultLimitHandler
	}
	return func(next http.Handler) http.Handler {
		if counter == nil || !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := cfg.TrustedProxies.ClientIP(r)

			count, err := counter.Hit(r.Context(), client, cfg.Window)
			if err != nil {
				logger.Error("rate limit counter failed",
					slog.String("client", client),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				logger.Warn("rate limited",
					slog.String("client", client),
					slog.Int64("count", count),
				)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter(r.Context(), counter, client, cfg.Window)))
				handler(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfter returns whole seconds until the client's window resets, falling
// back to the full window when the counter cannot say
func retryAfter(ctx context.Context, counter storage.Counter, key string, window time.Duration) int {
	if wr, ok := counter.(windowReporter); ok {
		if left, err := wr.Remaining(ctx, key); err == nil && left > 0 {
			return int(math.Ceil(left.Seconds()))
		}
	}
	return int(math.Ceil(window.Seconds()))
}
