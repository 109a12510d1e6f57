package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validateInst
}

// Validate checks the update before it is sent. The first failing field is
// reported as a ValidationError.
func (u ProfileUpdate) Validate() error {
	u.Name = strings.TrimSpace(u.Name)
	err := validatorInstance().Struct(u)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return liberrors.NewValidationError("", err.Error(), err)
	}
	first := fieldErrs[0]
	return liberrors.NewValidationError(fieldLabel(first.Field()), describe(first), err)
}

func fieldLabel(field string) string {
	switch field {
	case "UserID":
		return "user_id"
	case "BodyShape":
		return "body_shape"
	case "SkinTone":
		return "skin_tone"
	default:
		return strings.ToLower(field)
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
