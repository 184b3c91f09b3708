package membership

import "github.com/go-playground/validator/v10"

// RegisterValidators installs the "tier" tag, which accepts any spelling NormalizeTier understands.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return NormalizeTier(fl.Field().String()).Valid()
	})
}
