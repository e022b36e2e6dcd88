package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"verkefnalisti/pkg/logger"
)

// RequestID assigns each request an id, binds it into the context logger and
// echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
