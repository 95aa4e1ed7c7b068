package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trucklot/backend/internal/interfaces/http/dto"
)

// DefaultBodyLimit is enough for any JSON the API accepts.
const DefaultBodyLimit int64 = 64 << 10

// BodyLimit rejects bodies larger than maxBytes, by declared length up
// front and by actual length while reading.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
