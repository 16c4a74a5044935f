package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
)

// RateLimitMiddleware rejects requests beyond rps requests per second with a
// 429. The budget is shared by every client of the route group.
func RateLimitMiddleware(rps, burst int, log logger.Logger) gin.HandlerFunc {
	if burst <= 0 {
		burst = rps
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if rps <= 0 || limiter.Allow() {
			c.Next()
			return
		}

		log.Warn("Rate limit exceeded",
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Too many requests",
		})
	}
}
