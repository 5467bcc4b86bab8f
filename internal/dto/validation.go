package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldErrors extracts per-field messages from a binding error so validation
// failures surface with field-level detail rather than a single opaque string.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "oneof":
			fields[fe.Field()] = "must be one of: " + fe.Param()
		case "len":
			fields[fe.Field()] = "must be exactly " + fe.Param() + " characters"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return fields
}
