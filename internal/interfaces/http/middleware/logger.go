package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"swap-calldata.backend/pkg/logger"
)

// LoggerMiddleware logs each served request. The request id is read from the
// request context set by RequestIDMiddleware.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.LogRequest(c.Request.Context(), logger.RequestLog{
			Method:   c.Request.Method,
			Path:     path,
			Route:    c.FullPath(),
			Status:   c.Writer.Status(),
			Latency:  time.Since(start),
			ClientIP: c.ClientIP(),
			Bytes:    c.Writer.Size(),
		})
	}
}
