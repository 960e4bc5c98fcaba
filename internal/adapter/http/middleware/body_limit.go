package middleware

import (
	"net/http"

	"growfi-backend/pkg/apperror"
	"growfi-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize caps the request body. Requests that declare a larger
// Content-Length are rejected up front; others fail on read past the limit.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, apperror.New(apperror.CodeValidation, "Request body too large", http.StatusRequestEntityTooLarge))
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
