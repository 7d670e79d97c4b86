package middleware

import (
	"go-job-intake/internal/delivery/http/response"
	"go-job-intake/internal/domain"
	"go-job-intake/pkg/auth"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the token returned when an intake session starts
const SessionHeader = "X-Intake-Session"

// IntakeSession resolves the session token to a session id.
// "Authorization: Bearer <token>" is accepted as well.
func IntakeSession(tokens *auth.SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			response.Error(c, http.StatusUnauthorized, SessionHeader+" header required", nil)
			c.Abort()
			return
		}

		sessionID, err := tokens.Parse(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired session", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeySessionID), sessionID)
		c.Next()
	}
}
