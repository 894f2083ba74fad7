package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"

	// maxRequestIDLen caps caller-supplied IDs so arbitrary header content
	// cannot be smuggled into log lines.
	maxRequestIDLen = 64
)

// RequestID tags each request with an ID for log correlation. A well-formed
// ID supplied by the caller is honored; anything else gets a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.New().String()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or an empty string.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
