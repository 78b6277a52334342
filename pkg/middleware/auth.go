package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/sessions"
)

// SessionKey is the gin context key the authenticated session is stored under.
const SessionKey = "session"

// SessionValidator is the minimal interface the middleware depends on
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*sessions.Session, error)
}

// BearerToken extracts the opaque session token from the Authorization
// header. Returns "" when the header is missing or malformed.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	var token string
	if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
		return ""
	}
	return strings.TrimSpace(token)
}

// SessionAuth returns a Gin middleware that resolves the Bearer token to a
// session via the provided validator.
func SessionAuth(v SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}
		sess, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated session carries the
// admin role. Must run after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !sess.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session set by SessionAuth, or nil.
func CurrentSession(c *gin.Context) *sessions.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*sessions.Session)
	if !ok {
		return nil
	}
	return sess
}
