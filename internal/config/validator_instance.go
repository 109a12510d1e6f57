package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("api_url", func(fl validator.FieldLevel) bool {
			raw := strings.TrimSpace(fl.Field().String())
			if raw == "" {
				return false
			}

			parsed, err := url.Parse(raw)
			if err != nil {
				return false
			}
			scheme := strings.ToLower(parsed.Scheme)
			return (scheme == "http" || scheme == "https") && parsed.Host != ""
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks cfg and reports the first offending field.
func Validate(cfg *Config) error {
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return liberrors.NewValidationError(fe.Namespace(), describe(fe), err)
	}
	return liberrors.NewValidationError("", err.Error(), err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "api_url":
		return "must be an http(s) URL with a host"
	case "hostname_port":
		return "must be host:port"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
