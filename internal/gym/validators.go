package gym

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the "facility", "weekday" and "hhmm" tags used by request structs.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("facility", func(fl validator.FieldLevel) bool {
		return Facility(normalizeTag(fl.Field().String())).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return Weekday(normalizeTag(fl.Field().String())).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
