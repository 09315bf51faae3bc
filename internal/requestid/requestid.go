// Package requestid tags every request with a unique id for log correlation.
package requestid

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerName = "X-Request-ID"

// Middleware assigns each request a UUID, echoes it in the response header,
// and logs one summary line per request.
func Middleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerName)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(headerName, id)

		start := time.Now()
		c.Next()

		log.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
