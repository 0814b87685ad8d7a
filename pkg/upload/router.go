package upload

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, handler Handler) {
	for _, namespace := range Namespaces {
		r.GET("/"+string(namespace)+"/*name", handler.Serve(namespace))
	}
}
