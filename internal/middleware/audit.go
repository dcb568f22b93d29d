package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanderpets/admin-api/internal/models"
)

// AuditWriter persists audit log entries.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Audit creates a middleware that records audit logs after successful requests.
func Audit(repo AuditWriter, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if repo == nil || c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:   action,
			Resource: resource,
			NewValues: map[string]any{
				"path":    c.FullPath(),
				"method":  c.Request.Method,
				"status":  c.Writer.Status(),
				"latency": time.Since(start).Milliseconds(),
			},
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if claims, ok := CurrentClaims(c); ok {
			uid := claims.UserID
			entry.UserID = &uid
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}
		_ = repo.CreateAuditLog(c.Request.Context(), entry)
	}
}
