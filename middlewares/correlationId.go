package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teknetau/gestion_backend/utils"
)

const correlationHeader = "X-Correlation-Id"

// CorrelationId propagates or mints a request correlation id for log lines.
func CorrelationId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Request.Header.Get(correlationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), id))
		c.Writer.Header().Set(correlationHeader, id)
		c.Next()
	}
}
