package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/blog"
	"github.com/yatube/yatube/pkg/logging"
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// respondError writes err as JSON. Validation errors become 400 with field
// messages; anything unrecognised, including store constraint violations,
// is logged and reported as 500.
func respondError(c *gin.Context, err error) {
	var apiErr *Error
	if ve, ok := blog.IsValidation(err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
		return
	}

	switch {
	case errors.As(err, &apiErr):
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
	case errors.Is(err, blog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, blog.ErrUnauthenticated):
		redirectToLogin(c)
	default:
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		}
		if errors.Is(err, blog.ErrConstraintViolation) {
			fields = append(fields, zap.Bool("constraint_violation", true))
		}
		logging.FromContext(c.Request.Context(), "api").Error("Request failed", fields...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	c.Abort()
}
