package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/apperror"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrAbsent),
		errors.Is(err, apperror.ErrEmptyResult):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes err as a JSON error reply and stops the chain.
// Errors without an AppError in their chain are logged and reported as a
// generic internal error.
func AbortWithError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusOf(err)
	body := ErrorResponse{RequestID: RequestIDFrom(c)}

	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		body.Error = appErr.Code
		body.Message = appErr.Message
		body.Fields = appErr.Fields
	} else {
		status = http.StatusInternalServerError
		body.Error = "internal_error"
		body.Message = "internal server error"
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	c.AbortWithStatusJSON(status, body)
}

// Recovery turns panics into a 500 reply in the standard error shape.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered", "panic", rec, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:     "internal_error",
					Message:   "internal server error",
					RequestID: RequestIDFrom(c),
				})
			}
		}()
		c.Next()
	}
}
