package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/identity"
	"userprefs-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth resolves the caller's subject and stores it in context. Requests
// without a subject stop here with 401, whatever their path.
func Auth(extractor identity.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		subject, ok := extractor.Extract(c.Request)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
