package handler

import (
	"strconv"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/gin-gonic/gin"
)

// GetPathParameter parses the path parameter as an id. On failure the request is aborted with a bad
// request error.
func GetPathParameter(c *gin.Context, parameter string) (uint, bool) {
	idParam := c.Param(parameter)
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error parsing %q: %v", parameter, err))
		c.Abort()
		return 0, false
	}
	return uint(id), true
}

// GetQueryParameter parses the query parameter as an id. On failure the request is aborted with a
// bad request error.
func GetQueryParameter(c *gin.Context, parameter string) (uint, bool) {
	value := c.Query(parameter)
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error parsing %q: %v", parameter, err))
		c.Abort()
		return 0, false
	}
	return uint(id), true
}
