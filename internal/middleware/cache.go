package middleware

import (
	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header on every response.
func CacheControl(directive string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", directive)
		c.Next()
	}
}

// NoStore keeps staff data out of browser and proxy caches. The console
// caches upstream reads itself and tells dashboards when to refetch.
func NoStore() gin.HandlerFunc {
	return CacheControl("no-store")
}
