package engine

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkInput runs struct-tag validation and reports the first failure as a
// ValidationError.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return ValidationError{Field: strings.ToLower(fe.Field()), Reason: reasonFor(fe)}
	}
	return err
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return "expected a date like 2006-01-02"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}
