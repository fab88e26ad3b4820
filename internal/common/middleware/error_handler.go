package middleware

import (
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler middleware catches panics and converts them to proper error responses
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				appErr := errors.Internal("internal server error", "")
				c.AbortWithStatusJSON(appErr.Status, appErr)
			}
		}()
		c.Next()
	}
}

// JSONErrorResponse wraps errors in consistent JSON format
func JSONErrorResponse(c *gin.Context, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		if err == nil {
			appErr = errors.Unauthorized("missing or invalid authentication")
		} else {
			appErr = errors.Internal("internal server error", err.Error())
		}
	}

	c.JSON(appErr.Status, appErr)
}
