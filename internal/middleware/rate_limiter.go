package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiterConfig bounds how often one client may hit the auth endpoints.
type RateLimiterConfig struct {
	MaxRequests int
	Window      time.Duration
	BlockTime   time.Duration
}

// RateLimiter throttles per client IP through Redis counters. It guards the
// signup and token-exchange endpoints against code brute-forcing and mail
// flooding.
type RateLimiter struct {
	redis  *redis.Client
	ctx    context.Context
	config RateLimiterConfig
}

func NewRateLimiter(redisClient *redis.Client, config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		ctx:    context.Background(),
		config: config,
	}
}

// Middleware rejects over-limit clients with 429 and a Retry-After header.
// Redis errors fail open: a throttling outage must not take auth down.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := rl.Allow(c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Allow counts a request against the client's window. Crossing the limit
// places the client on a block key for BlockTime, so hammering does not
// reset the window.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration, error) {
	blockKey := fmt.Sprintf("authlimit:block:%s", ip)
	blocked, err := rl.redis.Exists(rl.ctx, blockKey).Result()
	if err != nil {
		return false, 0, err
	}
	if blocked > 0 {
		ttl, err := rl.redis.TTL(rl.ctx, blockKey).Result()
		if err != nil {
			ttl = rl.config.BlockTime
		}
		return false, ttl, nil
	}

	countKey := fmt.Sprintf("authlimit:count:%s", ip)
	count, err := rl.redis.Incr(rl.ctx, countKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := rl.redis.Expire(rl.ctx, countKey, rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.config.MaxRequests) {
		if err := rl.redis.Set(rl.ctx, blockKey, 1, rl.config.BlockTime).Err(); err != nil {
			return false, 0, err
		}
		return false, rl.config.BlockTime, nil
	}

	return true, 0, nil
}
