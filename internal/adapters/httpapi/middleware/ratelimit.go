package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter decides whether one more request from key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// IPRateLimiter is a sliding-window limiter local to the process.
type IPRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit     int
	window    time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *IPRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	if !now.Before(rl.nextSweep) {
		rl.sweep(cutoff)
		rl.nextSweep = now.Add(rl.window)
	}

	requests := rl.requests[key]
	i := 0
	for ; i < len(requests); i++ {
		if requests[i].After(cutoff) {
			break
		}
	}
	requests = requests[i:]
	if len(requests) == 0 {
		delete(rl.requests, key)
	}

	if len(requests) >= rl.limit {
		rl.requests[key] = requests
		return false, nil
	}
	rl.requests[key] = append(requests, now)
	return true, nil
}

// sweep drops keys with no request after cutoff.
func (rl *IPRateLimiter) sweep(cutoff time.Time) {
	for key, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, key)
		}
	}
}

// RateLimitMiddleware limits by client IP. Limiter errors let the request through.
func RateLimitMiddleware(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
