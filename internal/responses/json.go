// Package responses writes the JSON envelope shared by all API endpoints.
package responses

import "github.com/gin-gonic/gin"

// APIResponse is the envelope of every API response
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success writes a successful response
func Success(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Fail writes an error response. data may carry details such as diagnostics.
func Fail(c *gin.Context, statusCode int, err error, message string, data ...any) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	c.JSON(statusCode, resp)
}
