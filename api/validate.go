package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct returns per-field messages, or nil when payload is valid.
func validateStruct(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			errs[field] = fmt.Sprintf("The %s field is required.", field)
		case "min":
			errs[field] = fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
		case "max":
			errs[field] = fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
		case "excludesall":
			errs[field] = fmt.Sprintf("The %s contains invalid characters.", field)
		default:
			errs[field] = fmt.Sprintf("The %s field is invalid.", field)
		}
	}
	return errs
}
