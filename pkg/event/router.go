package event

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, handler Handler) {
	router := r.Group("/event")

	router.POST("/create", handler.Create)
	router.PUT("/update/:id", handler.Update)
	router.GET("", handler.FindAll)
	router.GET("/", handler.FindAll)
	router.GET("/statuses", handler.Statuses)
	router.GET("/export", handler.Export)
	router.GET("/search/:title", handler.Search)
	router.GET("/:id", handler.Find)
	router.DELETE("/:id", handler.Delete)

	router.POST("/upload-description-image", handler.UploadDescriptionImage)
	router.POST("/upload-event-files", handler.UploadEventFiles)

	router.POST("/accept/:id", handler.Transition(KindAccept))
	router.POST("/confirm/:id", handler.Transition(KindConfirm))
	router.POST("/reject/:id", handler.Reject)
	router.POST("/reject-handler/:id", handler.Transition(KindRejectHandler))
	router.POST("/Ditolak/:id", handler.Transition(KindVerificationReject))
	router.POST("/Disetujui/:id", handler.Transition(KindApprove))
	router.POST("/fix/:id", handler.Transition(KindFix))

	router.PUT("/change-handler/:id", handler.ChangeHandler)
	router.PUT("/update-handler/:id", handler.UpdateHandler)
}
