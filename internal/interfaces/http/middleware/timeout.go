// internal/interfaces/http/middleware/timeout.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/interfaces/http/response"
)

// Timeout aborts requests exceeding the limit so a slow payment
// gateway call cannot hold a connection open indefinitely. Handlers
// see the deadline through the request context.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			defer close(done)
			c.Next()
		}()

		select {
		case <-done:
		case <-ctx.Done():
			c.Abort()
			c.JSON(http.StatusRequestTimeout, response.Envelope{
				Success: false,
				Message: "Request timed out",
			})
		}
	}
}
