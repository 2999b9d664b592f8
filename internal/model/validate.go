package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is returned when a value fails a validation rule that has
// no dedicated sentinel error.
var ErrInvalid = errors.New("invalid value")

// validate is shared by all model types; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// rule identifies a failed struct tag on a field.
type rule struct {
	field string
	tag   string
}

// Validate checks v against its struct tags and returns ErrInvalid wrapped
// with the first failing field. Exposed for request DTOs in other packages.
func Validate(v any) error {
	return checkStruct(v, nil)
}

// checkStruct runs the validator on v and maps the first failing rule to
// a sentinel error from rules, falling back to ErrInvalid.
func checkStruct(v any, rules map[rule]error) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}

	for _, fe := range fieldErrs {
		if mapped, ok := rules[rule{field: fe.Field(), tag: fe.Tag()}]; ok {
			return mapped
		}
	}

	fe := fieldErrs[0]
	return fmt.Errorf("%w: field %s failed on %q", ErrInvalid, fe.Field(), fe.Tag())
}
