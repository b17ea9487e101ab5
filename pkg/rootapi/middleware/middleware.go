package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/rootcheck/pkg/rootapi/types"
)

// Recovery middleware with logging
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("API panic recovered: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.Response{
					Success: false,
					Error: &types.ErrorInfo{
						Code:    "INTERNAL_ERROR",
						Message: "Internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}

// RequestLogger logs API requests at debug level
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debugf("API %s %s %d %v", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// NoCache middleware prevents caching of API responses; every verdict is
// computed fresh.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
