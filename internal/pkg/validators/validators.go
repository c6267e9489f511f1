// Package validators holds the custom go-playground/validator rules shared by
// request DTOs, domain entities and configuration settings.
package validators

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with every custom rule of this package registered.
func New() (*validator.Validate, error) {
	validate := validator.New()
	if err := Register(validate); err != nil {
		return nil, err
	}
	return validate, nil
}

// Register binds the custom rules to an existing validator instance.
func Register(validate *validator.Validate) error {
	rules := map[string]validator.Func{
		PositiveDurationTag: PositiveDurationValidation,
		AccountNumberTag:    AccountNumberValidation,
		TokenTag:            TokenValidation,
	}
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register custom validator %s: %w", tag, err)
		}
	}
	return nil
}
