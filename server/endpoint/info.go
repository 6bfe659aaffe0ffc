package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huzzdev/sincrolab-backend/version"
)

var startTime = time.Now()

// Info returns a handler that reports the service version and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": version.Get(),
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
