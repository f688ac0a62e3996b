package middleware

import "github.com/gin-gonic/gin"

// SetCacheHit exposes whether the response was served from cache as X-Cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if hit {
		c.Header("X-Cache", "HIT")
		return
	}
	c.Header("X-Cache", "MISS")
}
