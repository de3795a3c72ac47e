package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
)

// Request checks decoded request bodies against their `validate` struct
// tags and implements echo.Validator. Failures come back as
// *apperr.ValidationError keyed by the JSON field path, e.g.
// "seat_rows[1].seats_in_row".
type Request struct {
	v *validator.Validate
}

func NewRequest() *Request {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Request{v: v}
}

// Validate reports the first failing rule of i.
func (r *Request) Validate(i any) error {
	err := r.v.Struct(i)
	var fes validator.ValidationErrors
	if errors.As(err, &fes) && len(fes) > 0 {
		fe := fes[0]
		return apperr.Invalid(fieldPath(fe), "%s", message(fe))
	}
	return err
}

// fieldPath drops the Go type name that leads the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return "this field may not be blank"
		}
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("ensure this field has no more than %s characters", p)
		case reflect.Slice:
			return fmt.Sprintf("ensure this field has no more than %s elements", p)
		}
		return "ensure this value is less than or equal to " + p
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("ensure this field has at least %s characters", p)
		case reflect.Slice:
			return fmt.Sprintf("ensure this field has at least %s elements", p)
		}
		return "ensure this value is greater than or equal to " + p
	case "gte":
		return "ensure this value is greater than or equal to " + p
	case "gt":
		return "ensure this value is greater than " + p
	}
	return fmt.Sprintf("failed the %q check", fe.Tag())
}
