// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Name string `json:"name"`
	Info any    `json:"info,omitempty"`
}

// RespondError writes a standardized JSON error response and aborts the request.
func RespondError(c *gin.Context, status int, name string, info any) {
	c.AbortWithStatusJSON(status, ErrorBody{Name: name, Info: info})
}
