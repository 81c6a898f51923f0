package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore keeps intermediaries from caching responses that carry tokens or
// personal data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
