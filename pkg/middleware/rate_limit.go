package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	apperrors "safari/pkg/errors"
	httputil "safari/pkg/http"
	"safari/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "rate_limiter:bookings"

// NewRateLimitStore returns a Redis-backed store when a client is given and an
// in-process store otherwise.
func NewRateLimitStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix}), nil
	}
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimit limits requests per caller. Authenticated callers are keyed by
// their token, anonymous ones by client IP. X-Forwarded-For and X-Real-IP are
// only honoured when trustForwardHeader is set, i.e. behind a proxy that
// overwrites them.
func RateLimit(store limiter.Store, formattedRate string, trustForwardHeader bool, log *logger.Logger) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formattedRate, err)
	}
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(trustForwardHeader))

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(func(r *http.Request) string {
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
				sum := sha256.Sum256([]byte(token))
				return "token:" + hex.EncodeToString(sum[:8])
			}
			return "ip:" + instance.GetIPKey(r)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Warn("Rate limit exceeded",
				"request_id", RequestIDFrom(r.Context()),
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			httputil.WriteError(w, apperrors.New(apperrors.CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests))
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("Rate limiter failed", "request_id", RequestIDFrom(r.Context()), "error", err)
			httputil.WriteError(w, apperrors.Unavailable("Rate limiter"))
		}),
	)

	return mw.Handler, nil
}
