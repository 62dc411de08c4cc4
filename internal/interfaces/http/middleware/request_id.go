package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"swap-calldata.backend/pkg/utils"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware tags each request with an id, reusing a sane X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := utils.RequestID(c.GetHeader(RequestIDHeader))

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		// pkg/logger reads the id from the request context
		ctx := context.WithValue(c.Request.Context(), RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
