package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/holydev99/debtSet/pkg/utils"
)

// NewValidator returns a validator that knows the debt request tags
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("nonneg_decimal", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseAmount(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("due_date", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseDueDate(fl.Field().String(), time.UTC)
		return err == nil
	})
	return v
}

// ValidationMessage turns validator errors into one human readable line
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "nonneg_decimal":
		return fmt.Sprintf("%s must be a number from 0 up to %s with at most 2 decimal places", field, utils.MaxAmount.String())
	case "due_date":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
