package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/shared/server/respond"
	"resumeiq/internal/shared/telemetry"
)

// Recovery recovers from panics. API routes get the JSON error envelope,
// pages get a plain 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				if strings.HasPrefix(c.Request.URL.Path, "/api/") {
					respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
				} else {
					c.String(http.StatusInternalServerError, "Something went wrong. Please reload the page.")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
