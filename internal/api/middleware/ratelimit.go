package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/countnum/internal/api/apierr"
	"github.com/mcoot/countnum/internal/middleware"
	"github.com/mcoot/countnum/internal/storage"
)

// RateLimit creates per-client rate limiting for the API
// Rejected requests get a JSON 429 response
func RateLimit(counter storage.Counter, cfg middleware.RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RateLimit(counter, cfg, logger, apiLimitHandler)
}

func apiLimitHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewRateLimitedError())
}
