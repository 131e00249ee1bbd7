package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey       = "request_id"
	clientRequestIDKey = "client_request_id"
)

// RequestID tags every request with a server-generated UUID and echoes it
// in the response header. Uploads can run for minutes across many log
// lines, so the ID is minted here rather than trusted from the client; a
// client-supplied X-Request-ID is kept under its own key for correlation
// only.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			c.Set(clientRequestIDKey, clientID)
		}

		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the canonical ID for the current request, or the
// empty string outside the middleware.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// ClientRequestIDFrom returns the client-supplied correlation ID, if any.
func ClientRequestIDFrom(c *gin.Context) string {
	return c.GetString(clientRequestIDKey)
}
