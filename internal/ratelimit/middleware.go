package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	httperr "github.com/beacon-lab/project-beacon/internal/core/errors"
)

const msgRateLimited = "Too many requests, please try again later."

// Middleware limits requests per client address (gin's ClientIP, which honours
// the engine's trusted proxies). Store failures let the request through.
func Middleware(store Store) gin.HandlerFunc {
	if store == nil {
		panic("ratelimit: store must not be nil")
	}
	return func(c *gin.Context) {
		key := c.ClientIP()
		d, err := store.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Error("[RateLimit] Counter unavailable, allowing request", "client_ip", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			retryAfter := int(math.Ceil(time.Until(d.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			slog.Warn("[RateLimit] Request limited", "client_ip", key, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				httperr.NewErrorResponse(httperr.HttpRateLimitedError, msgRateLimited, nil))
			return
		}
		c.Next()
	}
}
