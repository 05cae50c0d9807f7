package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/user-management/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so error meta matches the request body.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// firstFieldError runs struct validation and returns the first failing field.
// Fields are reported in declaration order.
func firstFieldError(v any) (validator.FieldError, bool) {
	err := validate.Struct(v)
	if err == nil {
		return nil, false
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return ves[0], true
	}
	return nil, false
}

// toDomainError maps a validator failure onto the domain taxonomy.
func toDomainError(fe validator.FieldError) *domain.Error {
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(fe.Field())
	case "email":
		return domain.ErrInvalidField(fe.Field(), "invalid format")
	default:
		return domain.ErrInvalidField(fe.Field(), fe.Tag())
	}
}
