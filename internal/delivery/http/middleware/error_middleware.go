package middleware

import (
	"errors"
	"go-job-intake/internal/delivery/http/response"
	"go-job-intake/internal/domain"
	"go-job-intake/pkg/apperror"
	"go-job-intake/pkg/logger"
	"go-job-intake/pkg/validation"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed",
					zap.String("path", c.FullPath()),
					zap.String("request_id", c.GetString(string(domain.KeyRequestID))),
					zap.Error(appErr),
				)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.Error(c, http.StatusBadRequest, "Invalid input", validation.FormatValidationErrors(err))
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("internal server error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(string(domain.KeyRequestID))),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
