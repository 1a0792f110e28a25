package service

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
)

var validate *validator.Validate

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	validate = validator.New()

	// Use JSON tag names for validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	choice := func(choices []model.Choice) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return model.Valid(choices, fl.Field().String())
		}
	}
	validate.RegisterValidation("category", choice(model.Categories))
	validate.RegisterValidation("block", choice(model.Blocks))
	validate.RegisterValidation("itemtype", choice(model.ItemTypes))
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// validateStruct validates s and converts failures into a validation error
// keyed by JSON field name.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating input: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return apperr.Validation("invalid input", fields)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "category", "block", "itemtype":
		return fmt.Sprintf("%q is not a valid %s", fe.Value(), field)
	case "username":
		return "username may contain only letters, digits and @/./+/-/_"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
