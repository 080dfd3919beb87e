package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Error codes returned in the response envelope.
const (
	codeInvalidInput = "invalid_input"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeStorage      = "storage_unavailable"
	codeInternal     = "internal"
)

const requestIDKey = "request_id"

// RequestID tags every request with a correlation id, echoed in responses
// and logs for cross-referencing.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":   false,
		"error":     code,
		"message":   message,
		"requestId": requestID(c),
		"timestamp": timestamp(),
	})
}
