package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a request struct against its validate tags and
// returns a client-facing error describing the first failing field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	vErr := vErrs[0]
	field := strings.ToLower(vErr.Field()[:1]) + vErr.Field()[1:]
	switch vErr.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email address", field)
	case "min":
		return fmt.Errorf("%s must have at least %s", field, vErr.Param())
	case "gt", "gte":
		return fmt.Errorf("%s must be at least %s", field, vErr.Param())
	case "eqfield":
		return fmt.Errorf("%s does not match %s", field, vErr.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, vErr.Param())
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
