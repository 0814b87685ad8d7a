package event

import (
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/go-playground/validator/v10"
)

// Validations are the custom binding validations of event requests. An empty status is accepted
// and treated as absent.
var Validations = map[string]validator.Func{
	"status": func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		return status == "" || model.Status(status).Valid()
	},
}
