package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/web/locale"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token-bucket limiter.
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
	KeyFunc           func(c *gin.Context) string
}

// DefaultRateLimitConfig returns the limits applied to the admin auth
// endpoints: enough for a human, hostile to credential stuffing.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
		BurstSize:         10,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// maxTrackedClients caps the limiter map; when exceeded the map is reset
// rather than pruned by a background task, keeping the request path the only
// execution context in the process.
const maxTrackedClients = 10000

// RateLimitMiddleware creates an in-memory rate limiting middleware keyed by
// client, typically IP.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	perSecond := rate.Limit(float64(config.RequestsPerMinute) / 60.0)

	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		mu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			if len(limiters) >= maxTrackedClients {
				limiters = make(map[string]*rate.Limiter)
			}
			limiter = rate.NewLimiter(perSecond, config.BurstSize)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			logger.Warningf("rate limit exceeded for %s on %s", key, c.Request.URL.Path)
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": locale.I18n(c.GetHeader("Accept-Language"), "common.rateLimited"),
			})
			return
		}

		c.Next()
	}
}
