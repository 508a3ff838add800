package middlewares

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/metrics"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/dropDatabas3/audiohub/internal/rate"
)

// WithRateLimit limits requests per client IP under scope, as resolved by
// WithClientIP. A nil limiter
// disables it; limiter errors let the request through.
func WithRateLimit(limiter rate.Limiter, scope string) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), scope+":"+clientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				metrics.RateLimited.WithLabelValues(scope).Inc()
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
