package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheControl marks successful GET responses as cacheable for maxAge.
// Private responses are kept out of shared caches.
func CacheControl(maxAge time.Duration, private bool) gin.HandlerFunc {
	scope := "public"
	if private {
		scope = "private"
	}
	value := fmt.Sprintf("%s, max-age=%d", scope, int(maxAge.Seconds()))
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Header("Cache-Control", value)
		}
		c.Next()
	}
}

// NoStore forbids caching, for per-student data that changes on every add or drop.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
