package middleware

import (
	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of obj and returns nil when it is valid
func ValidateStruct(obj interface{}) *dto.ErrorDetail {
	if err := validate.Struct(obj); err != nil {
		return dto.HandleValidationError(err)
	}
	return nil
}
