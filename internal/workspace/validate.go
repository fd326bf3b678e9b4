package workspace

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
	validateErr   error
)

// field messages double as i18n keys under workspaceSettings.errors.
var fieldMessages = map[string]string{
	"name":     "nameRequired",
	"currency": "currencyInvalid",
}

func notBlankTrimmed(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validatorInstance builds the shared validator. Currency codes use the built-in
// iso4217 tag, which only accepts assigned codes.
func validatorInstance() (*validator.Validate, error) {
	validatorOnce.Do(func() {
		v := validator.New()
		if err := v.RegisterValidation("notblank_trimmed", notBlankTrimmed); err != nil {
			validateErr = fmt.Errorf("register notblank_trimmed: %w", err)
			return
		}
		validateInst = v
	})
	return validateInst, validateErr
}

func validateStruct(s any) error {
	v, err := validatorInstance()
	if err != nil {
		return err
	}
	return convertValidationError(v.Struct(s))
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		field := strings.ToLower(ves[0].Field())
		msg, ok := fieldMessages[field]
		if !ok {
			msg = "failed validation for tag '" + ves[0].Tag() + "'"
		}
		return NewValidationError(field, msg, err)
	}

	return NewValidationError("form", err.Error(), err)
}
