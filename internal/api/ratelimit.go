package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/ratelimit"
)

// limiterIdleTTL drops per-client buckets that have been quiet this long.
const limiterIdleTTL = 10 * time.Minute

// newLoginLimiter creates the per-IP limiter guarding signup and login.
func newLoginLimiter(perMinute, burst int) *ratelimit.KeyedRateLimiter {
	return ratelimit.New(ratelimit.PerMinute(perMinute), burst, limiterIdleTTL)
}

// rateLimited returns a huma operation middleware that rejects requests with 429
// once the client IP exhausts its bucket.
func (s *Server) rateLimited(limiter *ratelimit.KeyedRateLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx)
		if !limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"operation", ctx.Operation().OperationID,
			)
			_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests,
				"too many requests, please try again later",
				domainerrors.RateLimited("too many requests, please try again later"))
			return
		}
		next(ctx)
	}
}

// clientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(ctx.RemoteAddr())
	if err != nil {
		return ctx.RemoteAddr()
	}
	return host
}
