// Package middleware holds the gin middleware shared by Beacon's HTTP surfaces.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httperr "github.com/beacon-lab/project-beacon/internal/core/errors"
)

// APIKeyHeader carries the client credential.
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests whose X-API-Key header matches none of keys.
// Blank keys are ignored.
func APIKey(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return func(c *gin.Context) {
		presented := []byte(strings.TrimSpace(c.GetHeader(APIKeyHeader)))
		if len(presented) > 0 {
			for _, k := range allowed {
				if subtle.ConstantTimeCompare(presented, k) == 1 {
					c.Next()
					return
				}
			}
		}

		slog.Warn("Rejected request with invalid API key",
			"path", c.FullPath(),
			"client_ip", c.ClientIP(),
			"key_present", len(presented) > 0)
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			httperr.NewErrorResponse(httperr.HttpUnauthorizedError, "Unauthorized", nil))
	}
}
