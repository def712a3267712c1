package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devshare/internal/auth"
	"devshare/internal/models"
)

// SessionKey is the gin context key the session claims are stored under.
const SessionKey = "session"

// RequireSession resolves the auth cookie and rejects the request with
// 401 when no valid session is present.
func RequireSession(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessions.CurrentSession(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// OptionalSession attaches session claims when a valid cookie is
// present but lets anonymous requests through.
func OptionalSession(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, ok := sessions.CurrentSession(c.Request); ok {
			c.Set(SessionKey, session)
		}
		c.Next()
	}
}

// SessionFrom extracts the claims placed by RequireSession or
// OptionalSession.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	val, ok := c.Get(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}
