package validators

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with a shared validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate validates a struct using its `validate` tags
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
