package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorHandler logs the errors handlers attached with c.Error. The response
// itself has already been written by then.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			logger.Error("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"error", e.Err,
			)
		}
	}
}
