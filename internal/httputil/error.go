package httputil

import "github.com/gin-gonic/gin"

// HTTPError is the JSON body of all error responses.
type HTTPError struct {
	Error string `json:"error"`
}

// Error aborts the request with a JSON error body.
func Error(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, HTTPError{Error: err.Error()})
}
