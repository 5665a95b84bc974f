package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/user-management/internal/core/domain"
)

// phonePattern accepts digits, spaces, dashes, parentheses and an optional
// leading plus.
var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// echoValidator wraps go-playground/validator so Echo can call
// c.Validate(req). Failures come back as *domain.ValidationError with every
// violated field collected, not just the first.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()

	// Report fields under their JSON names so the error map matches the
	// wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := domain.NewValidationError()
			for _, fe := range ve {
				out.Add(fe.Field(), fieldMessage(fe))
			}
			return out
		}
		return err
	}
	return nil
}

// fieldMessage converts a single failed rule into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "phone":
		return fmt.Sprintf("The %s format is invalid.", field)
	default:
		return fmt.Sprintf("The %s is invalid (%s).", field, fe.Tag())
	}
}
