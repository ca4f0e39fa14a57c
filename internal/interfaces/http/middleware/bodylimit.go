package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeRequestTooLarge is reported when a request body exceeds the limit
const CodeRequestTooLarge = "REQUEST_TOO_LARGE"

// BodyLimit rejects requests whose declared body is larger than maxBytes and
// caps the bytes read from the rest. Rejections use the GraphQL error shape
// so clients parse one format.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"errors": []gin.H{{
					"message":    "request body exceeds maximum allowed size",
					"extensions": gin.H{"code": CodeRequestTooLarge},
				}},
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
