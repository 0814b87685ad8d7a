package handler

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every JSON response
// swagger:model Envelope
type Envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Respond writes data wrapped in an Envelope.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Status:  status,
		Data:    data,
		Message: message,
	})
}
