package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/teraclinic/clinic-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// statusFor maps application error codes onto HTTP statuses.
func statusFor(err error) int {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		status := statusFor(lastErr.Err)
		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: lastErr.Error(),
			TraceID: requestID,
		})
	}
}
