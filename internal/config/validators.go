package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/gogen/pkg/validator"
)

// newValidator returns a validator that reports fields by their flag labels and
// knows the custom tags used by Config.
func newValidator() (*validator.Validator, error) {
	validator := validator.NewValidator()

	if err := registerLogLevel(validator); err != nil {
		return nil, err
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return validator, nil
}

// registerLogLevel adds a validator for log level names with a human-readable error message.
func registerLogLevel(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"loglevel",
		validateLogLevel,
		"{0} must be one of trace, debug, info, warn, error, fatal or panic",
	); err != nil {
		return fmt.Errorf("registering loglevel validation: %w", err)
	}

	return nil
}

// validateLogLevel checks that the field names a level logrus understands.
func validateLogLevel(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	_, err := logrus.ParseLevel(fl.Field().String())

	return err == nil
}
