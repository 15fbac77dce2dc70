package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PublicCache marks GET responses as cacheable by browsers and proxies for
// maxAge seconds. Anything else is marked no-store.
func PublicCache(maxAge int) gin.HandlerFunc {
	directive := "public, max-age=" + strconv.Itoa(maxAge)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}
		c.Header("Cache-Control", directive)
		c.Next()
	}
}

// NoStore forbids caching, for admin and availability responses.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
