package middleware

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/portfolio-service/internal/config"
	"github.com/princekumarofficial/portfolio-service/internal/ratelimit"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

// Rate limited actions.
const (
	ActionContact = "contact"
	ActionUpload  = "upload"
)

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

func NewRateLimitConfig(redisClient *redis.Client, cfg config.RateLimit) *RateLimitConfig {
	return &RateLimitConfig{
		limiters: map[string]*ratelimit.TokenBucket{
			ActionContact: ratelimit.NewTokenBucket(redisClient, cfg.ContactPerMinute, cfg.ContactPerMinute),
			ActionUpload:  ratelimit.NewTokenBucket(redisClient, cfg.UploadPerMinute, cfg.UploadPerMinute),
		},
	}
}

// ClientAddress is the first X-Forwarded-For hop, or the remote host.
func ClientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limiter, exists := rlc.limiters[action]
		if !exists {
			return next
		}
		limit := strconv.FormatInt(limiter.Capacity(), 10)
		reset := strconv.Itoa(int(limiter.Window().Seconds()))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := ClientAddress(r)

			allowed, err := limiter.Allow(r.Context(), subject, action)
			if err != nil {
				// fail open
				slog.Error("rate limit check failed, allowing request",
					slog.String("action", action),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			remaining, _ := limiter.GetRemaining(r.Context(), subject, action)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", reset)

			if !allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					errors.New("rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitedHandler wraps a handler with rate limiting for a specific action.
// A nil config leaves the handler unwrapped.
func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.HandlerFunc) http.Handler {
	if rlc == nil {
		return handler
	}
	return rlc.RateLimitMiddleware(action)(handler)
}
