package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DataBinder binds the JSON or multipart form request body to req and validates it. Validation
// failures are reported per field.
func DataBinder(c *gin.Context, req any) error {
	if c.ContentType() != "application/json" && c.ContentType() != "multipart/form-data" {
		return errdef.NewUnsupportedMediaType("%s only accepts content of type application/json or multipart/form-data", c.FullPath())
	}

	err := c.ShouldBind(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, len(validationErrors))
		for i, fieldError := range validationErrors {
			fields[i] = describe(fieldError)
		}
		return errdef.NewBadRequest("Invalid request: %s", strings.Join(fields, "; "))
	}

	return errdef.NewBadRequest("Error binding data: %v", err)
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldError.Field())
	case "oneOf", "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fieldError.Field(), fieldError.Param())
	default:
		return fmt.Sprintf("%s failed on %q", fieldError.Field(), fieldError.Tag())
	}
}
