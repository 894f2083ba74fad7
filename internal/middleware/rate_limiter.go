package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
}

// RateLimiter applies a token bucket per client so one noisy caller cannot
// starve the others. Buckets are keyed by client IP and evicted after an
// idle period to keep the set bounded.
type RateLimiter struct {
	cfg     RateLimiterConfig
	buckets *gocache.Cache
	mu      sync.Mutex
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		buckets: gocache.New(10*time.Minute, 15*time.Minute),
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cached, ok := rl.buckets.Get(key); ok {
		return cached.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.cfg.Rate, rl.cfg.Burst)
	rl.buckets.Set(key, limiter, gocache.DefaultExpiration)
	return limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
