package upload

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/gin-gonic/gin"
)

func NewHandler(service *Service) Handler {
	return Handler{service: service}
}

type Handler struct {
	service *Service
}

// Serve streams files stored in the given namespace.
func (h Handler) Serve(namespace Namespace) gin.HandlerFunc {
	return func(c *gin.Context) {
		// swagger:route GET /uploads/{name} serveUpload
		//
		// Serve uploaded file
		//
		// Stream a file stored under /uploads, /uploads-event or /uploads-responses
		//
		// responses:
		//   200: File
		//   404: Error
		name := strings.TrimPrefix(c.Param("name"), "/")
		if name == "" {
			_ = c.Error(errdef.NewNotFound("file not found"))
			return
		}

		object, err := h.service.Open(c.Request.Context(), namespace, name)
		if err != nil {
			_ = c.Error(err)
			return
		}
		defer object.Body.Close()

		c.Header("Content-Type", object.ContentType)
		if object.Size > 0 {
			c.Header("Content-Length", strconv.FormatInt(object.Size, 10))
		}
		c.Status(http.StatusOK)
		_, err = io.Copy(c.Writer, object.Body)
		if err != nil {
			_ = c.Error(err)
		}
	}
}
