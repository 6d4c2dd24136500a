package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/codegate-events/internal/config"
)

// takeToken refills the bucket stored at KEYS[1] for the intervals elapsed
// since its last refill and then spends one token.
//
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s
// Returns {allowed (0|1), tokens left, ms until the next refill}.
var takeToken = redis.NewScript(`
local now = tonumber(ARGV[1])
local cap = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local every = tonumber(ARGV[4])

local h = redis.call('HMGET', KEYS[1], 'tokens', 'stamp')
local tokens = tonumber(h[1]) or cap
local stamp = tonumber(h[2]) or now

local steps = math.floor(math.max(0, now - stamp) / every)
if steps > 0 then
	tokens = math.min(cap, tokens + steps * refill)
	stamp = stamp + steps * every
end

local ok = 0
local wait = 0
if tokens >= 1 then
	ok = 1
	tokens = tokens - 1
else
	wait = math.max(0, every - (now - stamp))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
return {ok, tokens, wait}
`)

// bucketState is one decoded answer of takeToken.
type bucketState struct {
	allowed   bool
	remaining int64
	wait      time.Duration
}

func take(ctx context.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time) (bucketState, error) {
	res, err := takeToken.Run(ctx, rdb, []string{key},
		now.UnixMilli(),
		cfg.Capacity,
		cfg.RefillTokens,
		cfg.RefillInterval.Milliseconds(),
		int64(cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return bucketState{}, err
	}
	if len(res) != 3 {
		return bucketState{}, fmt.Errorf("rate limit script: want 3 values, got %d", len(res))
	}
	return bucketState{
		allowed:   res[0] == 1,
		remaining: res[1],
		wait:      time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// retryAfter rounds a wait up to whole seconds for the Retry-After header.
func retryAfter(wait time.Duration) int {
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}

// NewTokenBucket limits requests per key with a token bucket kept in Redis.
// With rate limiting disabled or no Redis client it is a no-op, and a Redis
// failure lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			st, err := take(c.Request().Context(), rdb, cfg, key, time.Now())
			if err != nil {
				slog.Warn("rate limit check failed", "key", key, "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(st.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if st.allowed {
				return next(c)
			}

			secs := retryAfter(st.wait)
			h.Set("Retry-After", strconv.Itoa(secs))
			slog.Debug("rate limited", "key", key, "retry_after", secs)
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"success":    false,
				"error":      "Too many requests from this IP, please try again later.",
				"retryAfter": secs,
			})
		}
	}
}

// buildRateKey joins the prefix with the parts selected by KeyStrategy:
// ip, user, route, or a pair of them. Unknown strategies use all three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	parts := map[string][]string{
		"ip":    {"ip", ip},
		"user":  {"user", subject(c)},
		"route": {"route", c.Request().Method + " " + c.Path()},
	}

	var pick []string
	switch s := strings.ToLower(cfg.KeyStrategy); s {
	case "ip", "user", "route":
		pick = []string{s}
	case "ip_user":
		pick = []string{"ip", "user"}
	case "ip_route":
		pick = []string{"ip", "route"}
	case "user_route":
		pick = []string{"user", "route"}
	default:
		pick = []string{"ip", "user", "route"}
	}

	key := []string{cfg.Prefix}
	for _, p := range pick {
		key = append(key, parts[p]...)
	}
	return strings.Join(key, ":")
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
