package validate

import (
	"github.com/go-playground/validator/v10"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

func PaymentMethod(fl validator.FieldLevel) bool {
	maybeMethod, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return models.PaymentMethod(maybeMethod).Known()
}
