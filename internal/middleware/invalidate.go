package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheInvalidator drops cached entries matching a pattern.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string)
}

// InvalidateCache clears the given cache patterns after a successful write request.
func InvalidateCache(inv CacheInvalidator, patterns ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if inv == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		for _, pattern := range patterns {
			inv.Invalidate(c.Request.Context(), pattern)
		}
	}
}
