package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader      = "X-API-Key"
	requestedByHeader = "X-Requested-By"
	requesterKey      = "requester"
)

// APIKeyAuth rejects requests whose X-API-Key does not match key and records
// the caller named in X-Requested-By for run attribution. An empty key
// disables the check.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requesterKey, strings.TrimSpace(c.GetHeader(requestedByHeader)))
		if key == "" {
			c.Next()
			return
		}
		provided := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-API-Key header"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
			return
		}
		c.Next()
	}
}

// requester returns the caller recorded by APIKeyAuth, or "" when the route
// is not behind it.
func requester(c *gin.Context) string {
	return c.GetString(requesterKey)
}
