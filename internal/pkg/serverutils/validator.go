package serverutils

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// ValidateRequest checks validate tags on req and returns a *ValidationError
// naming the first offending field.
func ValidateRequest(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return &ValidationError{Message: fmt.Sprintf("%s is required", fe.Field())}
	case "max":
		return &ValidationError{Message: fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())}
	default:
		return &ValidationError{Message: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}
