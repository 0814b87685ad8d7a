package division

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, handler Handler) {
	router := r.Group("/division")
	router.GET("", handler.FindAll)
	router.GET("/", handler.FindAll)
	router.POST("", handler.Create)
	router.POST("/", handler.Create)
	router.PUT("/:id", handler.Update)
	router.DELETE("/:id", handler.Delete)
}
