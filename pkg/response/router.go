package response

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, handler Handler) {
	router := r.Group("/response")
	router.POST("/create", handler.Create)
	router.GET("/event/:eventId", handler.FindByEvent)
	router.POST("/upload-response-image", handler.UploadImage)
	router.POST("/upload-response-files", handler.UploadFiles)
}
