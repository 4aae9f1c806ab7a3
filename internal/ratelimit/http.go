package ratelimit

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests over the limit with 429. A limiter backend
// failure lets the request through: the limiter protects upstream quotas and
// must not take the proxy down with it.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientKey(c.Request)

		allowed, retryAfter, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("[warn] operation=rate_limit key=%s error=%v", key, err)
			c.Next()
			return
		}

		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":    false,
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
