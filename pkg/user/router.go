package user

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, handler Handler) {
	router := r.Group("/user")
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	router.GET("/profile", handler.Profile)
	router.PUT("/profile", handler.UpdateProfile)
	router.PUT("/profile/image", handler.UpdateProfileImage)
	router.PUT("/password", handler.ChangePassword)
	router.GET("/list", handler.FindAll)
	router.GET("/by-division", handler.FindByDivision)
	router.PUT("/update-role", handler.UpdateRole)
	router.DELETE("", handler.Delete)
	router.DELETE("/", handler.Delete)
	router.GET("/:id", handler.FindById)
	router.PUT("/:id", handler.Update)
}
