package middleware

import (
	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/server/respond"
)

// ErrorDetails controls whether failure bodies carry the error category and
// message.
func ErrorDetails(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(respond.ExposeDetailsKey, expose)
		c.Next()
	}
}
