package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
	"valomarket/pkg/response"
)

// RateLimiter implements a per-client token bucket. Clients are keyed by
// authenticated uid when present, otherwise by IP.
type RateLimiter struct {
	visitors map[string]*Visitor
	mu       sync.Mutex
	rate     int           // requests per window
	window   time.Duration // time window
	now      func() time.Time
}

type Visitor struct {
	tokens     int
	lastSeen   time.Time
	blocked    bool
	blockUntil time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		window:   window,
		now:      time.Now,
	}
}

func clientKey(c echo.Context) string {
	if uid := UID(c); uid != "" {
		return "uid:" + uid
	}
	return "ip:" + c.RealIP()
}

// RateLimitMiddleware returns Echo middleware for rate limiting
func (rl *RateLimiter) RateLimitMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := clientKey(c)

			if ok, resetTime := rl.take(key); !ok {
				retryAfter := int(resetTime.Sub(rl.now()).Seconds()) + 1
				logger.Warn("Rate limit: blocked %s on %s (reset in %ds)", key, c.Path(), retryAfter)
				c.Response().Header().Set("Retry-After", fmt.Sprint(retryAfter))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}

// take consumes one token for key, returning false and the unblock time
// when the bucket is empty.
func (rl *RateLimiter) take(key string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	visitor, exists := rl.visitors[key]
	if !exists {
		rl.visitors[key] = &Visitor{
			tokens:   rl.rate - 1,
			lastSeen: now,
		}
		return true, time.Time{}
	}

	if visitor.blocked {
		if now.Before(visitor.blockUntil) {
			return false, visitor.blockUntil
		}
		visitor.blocked = false
		visitor.tokens = rl.rate
		visitor.lastSeen = now
	}

	// Refill proportionally to elapsed time.
	refill := int(int64(now.Sub(visitor.lastSeen)) * int64(rl.rate) / int64(rl.window))
	if refill > 0 {
		visitor.tokens += refill
		if visitor.tokens > rl.rate {
			visitor.tokens = rl.rate
		}
		visitor.lastSeen = now
	}

	if visitor.tokens <= 0 {
		visitor.blocked = true
		visitor.blockUntil = now.Add(rl.window)
		return false, visitor.blockUntil
	}

	visitor.tokens--
	return true, time.Time{}
}

// Cleanup drops visitors idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, visitor := range rl.visitors {
		if now.Sub(visitor.lastSeen) > maxIdle && !(visitor.blocked && now.Before(visitor.blockUntil)) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.Cleanup(2 * time.Hour); n > 0 {
					logger.Debug("Rate limiter dropped %d idle visitors", n)
				}
			}
		}
	}()
}

// GetVisitorStats returns current visitor statistics (for monitoring)
func (rl *RateLimiter) GetVisitorStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	blockedCount := 0
	activeCount := 0
	now := rl.now()

	for _, visitor := range rl.visitors {
		if visitor.blocked && now.Before(visitor.blockUntil) {
			blockedCount++
		} else if now.Sub(visitor.lastSeen) < time.Hour {
			activeCount++
		}
	}

	return map[string]interface{}{
		"total_visitors": len(rl.visitors),
		"blocked_count":  blockedCount,
		"active_count":   activeCount,
	}
}

var (
	// Ledger-mutating endpoints: 10 requests per minute.
	PaymentLimiter = NewRateLimiter(10, time.Minute)

	// Login and registration: 5 attempts per minute.
	AuthLimiter = NewRateLimiter(5, time.Minute)
)

func PaymentRateLimit() echo.MiddlewareFunc {
	return PaymentLimiter.RateLimitMiddleware()
}

func AuthRateLimit() echo.MiddlewareFunc {
	return AuthLimiter.RateLimitMiddleware()
}

// StartCleanup runs the idle-visitor sweep of the shared limiters.
func StartCleanup(ctx context.Context) {
	PaymentLimiter.StartCleanupRoutine(ctx)
	AuthLimiter.StartCleanupRoutine(ctx)
}
