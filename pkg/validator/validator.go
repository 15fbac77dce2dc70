package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/dental-api/pkg/errors"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	Engine() *validator.Validate
}

type playground struct {
	v *validator.Validate
}

// New returns a validator that reports fields by their json name and rejects
// whitespace-only strings for the "notblank" tag.
func New() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	Configure(v)
	return &playground{v: v}
}

// Configure registers the project's tag-name function and custom rules on v. It is applied to
// gin's binding engine as well so both paths report identical field names.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func (p *playground) Engine() *validator.Validate {
	return p.v
}

// Validate checks obj and returns an *errors.AppError with one entry per failing field.
func (p *playground) Validate(obj interface{}) error {
	return Translate(p.v.Struct(obj))
}

// Translate converts validator.ValidationErrors (or a gin binding error wrapping them) into
// a validation AppError. Other errors become a generic validation error.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation(fmt.Sprintf("invalid request: %v", err))
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describe(fe))
	}
	return errors.Validation("invalid request", fields...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
