package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a fixed-window rate limiter backed by Redis.
// Each client gets max requests per window, counted per route so a
// burst against one endpoint does not starve the rest. The counter
// key is INCRed and given the window as TTL on first hit; when the
// count exceeds max the request is rejected with 429 and a
// Retry-After header. A nil client disables limiting entirely, which
// matches how the Redis constructor degrades when the server is
// unreachable.
func RateLimit(client *redis.Client, max int, window time.Duration) echo.MiddlewareFunc {
	if max < 1 {
		max = 1
	}
	if window < time.Second {
		window = time.Minute
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil {
				return next(c)
			}
			ctx := c.Request().Context()
			slot := time.Now().Unix() / int64(window/time.Second)
			key := fmt.Sprintf("rl:%s:%s:%d", clientKey(c), c.Path(), slot)

			pipe := client.TxPipeline()
			count := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, window)
			if _, err := pipe.Exec(ctx); err != nil {
				// limiter outage must not take the API down
				return next(c)
			}
			if n := count.Val(); n > int64(max) {
				retry := window - time.Duration(time.Now().Unix()%int64(window/time.Second))*time.Second
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry/time.Second)+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}

// clientKey identifies the caller: user ID when authenticated,
// otherwise the remote IP.
func clientKey(c echo.Context) string {
	if uid := c.Get("user_id"); uid != nil {
		return fmt.Sprintf("u:%v", uid)
	}
	return "ip:" + c.RealIP()
}
