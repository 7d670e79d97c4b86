package middleware

import (
	"crypto/subtle"
	"go-job-intake/internal/delivery/http/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards back-office routes with a shared key. With no key configured
// the routes are disabled.
func AdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.Error(c, http.StatusServiceUnavailable, "Admin access is not configured", nil)
			c.Abort()
			return
		}

		got := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			response.Error(c, http.StatusForbidden, "Access denied", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
