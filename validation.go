package finovate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/etnz/finovate/date"
	"github.com/go-playground/validator/v10"
)

// validate checks the `validate` struct tags of records entered by the user.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields with their persisted name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Money and dates are opaque structs, they are validated as a number and a string.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if m, ok := field.Interface().(Money); ok {
			return m.InexactFloat64()
		}
		return nil
	}, Money{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(date.Date); ok {
			return d.String()
		}
		return nil
	}, date.Date{})
	return v
}

// validateStruct validates s and returns an ErrValidation listing every failing field.
func validateStruct(what string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: invalid %s: %v", ErrValidation, what, err)
	}
	var errs error
	for _, fe := range verrs {
		errs = errors.Join(errs, fmt.Errorf("%s %s", fe.Field(), describeTag(fe)))
	}
	return fmt.Errorf("%w: invalid %s: %w", ErrValidation, what, errs)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "fails " + fe.Tag()
	}
}
