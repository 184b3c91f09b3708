package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// BindingError turns a gin binding error into an ErrorResponse. Validator
// failures are listed per field; anything else (bad JSON) is reported as is.
func BindingError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorResponse{Error: err.Error()}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return ErrorResponse{Error: "validation failed", Details: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "tier":
		return fe.Field() + " must be monthly, half_yearly or yearly"
	case "facility":
		return fe.Field() + " is not a known facility"
	case "weekday":
		return fe.Field() + " must be a day of the week"
	case "hhmm":
		return fe.Field() + " must be a time in HH:MM form"
	default:
		return fe.Field() + " is invalid"
	}
}
