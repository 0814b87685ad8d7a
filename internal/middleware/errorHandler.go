package middleware

import (
	"fmt"
	"net/http"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/gin-gonic/gin"
)

// ErrorHandler maps the last error added to the gin context to an HTTP status and writes it as an
// envelope. Errors not known to errdef are reported with a generic message, the actual error is
// only logged by the RequestLogger.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil || c.Writer.Written() {
			return
		}

		// nolint:gocritic
		if errdef.IsBadRequest(err) {
			handler.Respond(c, http.StatusBadRequest, err.Error(), nil)
		} else if errdef.IsDuplicated(err) {
			handler.Respond(c, http.StatusBadRequest, err.Error(), nil)
		} else if errdef.IsConflict(err) {
			handler.Respond(c, http.StatusBadRequest, err.Error(), nil)
		} else if errdef.IsNotFound(err) {
			handler.Respond(c, http.StatusNotFound, err.Error(), nil)
		} else if errdef.IsUnsupportedMediaType(err) {
			handler.Respond(c, http.StatusUnsupportedMediaType, err.Error(), nil)
		} else {
			id, _ := GetCorrelationID(c.Request.Context())
			message := fmt.Sprintf("Internal server error. We'll look into it if you send us the id %q", id)
			handler.Respond(c, http.StatusInternalServerError, message, nil)
		}
	}
}
