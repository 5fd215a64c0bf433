package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map between cleanups.
const maxTrackedClients = 10000

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	maxClients int
	logger     *zap.Logger
}

func NewRateLimiter(requestsPerSecond float64, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rate:       rate.Limit(requestsPerSecond),
		burst:      burst,
		maxClients: maxTrackedClients,
		logger:     logger,
	}
}

// getLimiter returns the bucket for key. When the map is full it evicts one
// idle bucket (refilled to burst) to make room; if every tracked client is
// mid-burst the new key gets nil and must be refused.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[key]; exists {
		return limiter
	}
	if len(rl.limiters) >= rl.maxClients && !rl.evictIdleLocked() {
		return nil
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = limiter
	return limiter
}

func (rl *RateLimiter) isIdle(l *rate.Limiter) bool {
	return l.Tokens() >= float64(rl.burst)
}

func (rl *RateLimiter) evictIdleLocked() bool {
	for k, l := range rl.limiters {
		if rl.isIdle(l) {
			delete(rl.limiters, k)
			return true
		}
	}
	return false
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := rl.getLimiter(key)
		if limiter == nil || !limiter.Allow() {
			rl.logger.Warn("rate_limit_exceeded",
				zap.String("client_ip", key),
				zap.String("path", c.FullPath()))
			abortWithError(c, http.StatusTooManyRequests, "Too many requests, please try again later.")
			return
		}
		c.Next()
	}
}

// Cleanup drops buckets that have refilled, so idle clients do not
// accumulate. Clients still inside their burst keep their state.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, l := range rl.limiters {
		if rl.isIdle(l) {
			delete(rl.limiters, k)
		}
	}
}

// StartCleanup runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
