// Package validation wraps go-playground/validator with the storefront's
// custom rules and converts failures into domain field errors.
package validation

import (
	"regexp"

	"github.com/atlasware/souq/internal/domain"
	"github.com/go-playground/validator/v10"
)

// maPhonePattern matches Moroccan mobile numbers: +212 or a leading zero,
// then a 5/6/7 carrier prefix, then eight digits.
var maPhonePattern = regexp.MustCompile(`^(\+212|0)([5-7])[0-9]{8}$`)

// Validator validates form payloads against struct tags.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the ma_phone rule registered.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("ma_phone", func(fl validator.FieldLevel) bool {
		return maPhonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	return &Validator{v: v}, nil
}

// Struct validates s and returns a domain.ValidationError keyed by field
// name when it fails, nil otherwise.
func (val *Validator) Struct(op string, s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Internal(err, op, "validation failed")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe)
	}

	return &domain.ValidationError{Op: op, Fields: fields}
}

// messageFor maps a validator tag to a user-facing message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "ma_phone":
		return "Enter a valid Moroccan mobile number"
	case "min":
		return "Too short"
	case "max":
		return "Too long"
	case "gte", "gt":
		return "Value is too small"
	case "lte", "lt":
		return "Value is too large"
	default:
		return "Invalid value"
	}
}
