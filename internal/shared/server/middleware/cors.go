package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSHeaders is the fixed header set every response carries, including
// responses produced outside the router.
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// CORS stamps the fixed CORS and content-type headers on every response and
// answers preflight requests with 200 {} before authentication runs.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Type", "application/json")
		for k, v := range CORSHeaders {
			h.Set(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}

		c.Next()
	}
}
