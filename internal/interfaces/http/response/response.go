package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "swap-calldata.backend/internal/domain/errors"
	"swap-calldata.backend/pkg/logger"
)

// requestIDKey matches the gin context key set by the request id middleware
const requestIDKey = "request_id"

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Errors that are not an AppError become 500s
// and their cause is only logged.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.InternalError(err)
	}
	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed", zap.String("code", appErr.Code), zap.Error(err))
	}

	c.JSON(appErr.Status, errorBody(c, appErr.Code, appErr.Message))
}

// Abort writes an error response and stops the handler chain
func Abort(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, errorBody(c, code, message))
}

func errorBody(c *gin.Context, code, message string) gin.H {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if id := c.GetString(requestIDKey); id != "" {
		body["requestId"] = id
	}
	return body
}
