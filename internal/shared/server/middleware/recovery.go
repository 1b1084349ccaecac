package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/server/respond"
	"userprefs-backend/internal/shared/telemetry"
)

// PanicError carries a recovered panic value through the normal failure path.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Recovery recovers from panics and converts them into a 500 failure.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Failure(c, PanicError{Value: rec})
			}
		}()
		c.Next()
	}
}
