package notification

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, handler Handler) {
	r.GET("/notifications/subscribe", handler.Subscribe)
}
