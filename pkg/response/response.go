// Package response defines the JSON envelope every endpoint answers with:
// {success, data?, error?, fields?}.
package response

import (
	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

func FailFields(c *gin.Context, status int, message string, fields map[string]string) {
	c.JSON(status, Envelope{Success: false, Error: message, Fields: fields})
}

func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}
