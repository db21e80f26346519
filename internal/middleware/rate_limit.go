package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// Counter counts hits in a fixed window that starts at the first hit.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// The expiry is only set by the hit that creates the key, so the window
// does not slide while a client keeps sending requests.
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type redisCounter struct {
	client *redis.Client
}

func (rc *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, rc.client, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, err
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		return 0, 0, fmt.Errorf("unexpected redis script result: %v", res)
	}
	count, _ := vals[0].(int64)
	ttl, _ := vals[1].(int64)
	return count, time.Duration(ttl) * time.Millisecond, nil
}

// RateLimitMiddleware limits requests per client IP, one counter per scope.
type RateLimitMiddleware struct {
	server  *server.Server
	counter Counter
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	r := &RateLimitMiddleware{server: s}
	if s.Redis != nil {
		r.counter = &redisCounter{client: s.Redis}
	}
	return r
}

func (r *RateLimitMiddleware) General() echo.MiddlewareFunc {
	return r.limit("general", r.rules().General, "Too many requests, please try again in a few minutes")
}

func (r *RateLimitMiddleware) Auth() echo.MiddlewareFunc {
	return r.limit("auth", r.rules().Auth, "Too many authentication attempts, please try again later")
}

func (r *RateLimitMiddleware) Admin() echo.MiddlewareFunc {
	return r.limit("admin", r.rules().Admin, "Too many admin requests, please try again in a few minutes")
}

func (r *RateLimitMiddleware) Public() echo.MiddlewareFunc {
	return r.limit("public", r.rules().Public, "Too many requests, please try again in a few minutes")
}

func (r *RateLimitMiddleware) Upload() echo.MiddlewareFunc {
	return r.limit("upload", r.rules().Upload, "Too many uploads, please try again in a few minutes")
}

func (r *RateLimitMiddleware) Search() echo.MiddlewareFunc {
	return r.limit("search", r.rules().Search, "Too many searches, please wait a moment")
}

func (r *RateLimitMiddleware) rules() *config.RateLimitConfig {
	if r.server.Config.RateLimit == nil {
		return config.DefaultRateLimitConfig()
	}
	return r.server.Config.RateLimit
}

func (r *RateLimitMiddleware) limit(scope string, rule config.RateLimitRule, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !r.rules().Enabled || r.counter == nil {
			return next
		}
		return func(c echo.Context) error {
			key := "ratelimit:" + scope + ":" + c.RealIP()

			count, ttl, err := r.counter.Hit(c.Request().Context(), key, rule.Window)
			if err != nil {
				GetLogger(c).Error().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			remaining := int64(rule.Max) - count
			if remaining < 0 {
				remaining = 0
			}
			header := c.Response().Header()
			header.Set(HeaderRateLimitLimit, strconv.Itoa(rule.Max))
			header.Set(HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))

			if count > int64(rule.Max) {
				r.RecordRateLimitHit(scope)
				GetLogger(c).Warn().Str("scope", scope).Int64("count", count).Msg("rate limit exceeded")
				return errs.NewTooManyRequestsError(message, retrySeconds(ttl))
			}

			return next(c)
		}
	}
}

func retrySeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 1
	}
	return int(math.Ceil(ttl.Seconds()))
}

// RecordRateLimitHit counts a rejected request in Prometheus and, when
// New Relic is configured, as a custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(scope string) {
	if r.server.Metrics != nil {
		r.server.Metrics.RateLimitHits.WithLabelValues(scope).Inc()
	}
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"scope": scope,
		})
	}
}
