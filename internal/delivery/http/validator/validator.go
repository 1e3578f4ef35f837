// Package validator adapts go-playground/validator to echo's Validator interface.
// It is the validation gate: requests that fail any field predicate are
// rejected before they reach the use cases, with every failing field reported.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	domainerrors "fintrack/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	validate *playground.Validate
}

// New constructs the request validator. Field names in error output come from
// the json tag, so clients see the wire-level field names.
func New() *RequestValidator {
	validate := playground.New(playground.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &RequestValidator{validate: validate}
}

// Validate checks all predicates on the given struct and collects every
// failing field into a single ValidationError.
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs playground.ValidationErrors
	if !asValidationErrors(err, &validationErrs) {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	fields := make([]domainerrors.FieldError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fieldErr.Field(),
			Message: messageForTag(fieldErr),
		})
	}

	return domainerrors.NewValidationError(fields)
}

func asValidationErrors(err error, target *playground.ValidationErrors) bool {
	verrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs

	return true
}

func messageForTag(fieldErr playground.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "email":
		return "invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}
