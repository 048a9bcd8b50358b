package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/api/middleware"
	"github.com/seedtrial/seedtrial/internal/core/apperr"
	"github.com/seedtrial/seedtrial/internal/core/auth"
	"github.com/seedtrial/seedtrial/internal/core/validation"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

// respondError writes the status for err. Unclassified errors are attached to
// the context for ErrorHandler to log and reported as a bare 500.
func respondError(c *gin.Context, m *metrics.HTTPMetrics, resource string, err error) {
	switch {
	case validation.IsValidationError(err):
		m.RecordValidationRejection(resource)
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": validation.GetValidationErrors(err)})
	case errors.Is(err, apperr.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// bindJSON decodes the body into req, answering 400 itself on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// actor returns the authenticated principal, answering 401 itself when the
// route was mounted without the auth middleware.
func actor(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
