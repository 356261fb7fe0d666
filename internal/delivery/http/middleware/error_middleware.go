package middleware

import (
	"errors"
	"net/http"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Internal details stay in the server log.
		logger.Log.Error("internal server error",
			"error", err,
			"path", c.FullPath(),
			"method", c.Request.Method,
			"request_id", c.GetString("RequestID"),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
