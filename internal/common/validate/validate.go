package validate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the shared validator with the decimal rules registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{}, decimal.NullDecimal{})
		_ = validate.RegisterValidation("decimal_gte0", ValidateNonNegativeDecimal)
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// ValidateNonNegativeDecimal accepts decimals and decimal strings that are zero or positive.
func ValidateNonNegativeDecimal(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return false
		}
		return !d.IsNegative()
	case decimal.Decimal:
		return !value.IsNegative()
	default:
		return false
	}
}

// DecimalValue exposes decimals to the validator as strings. A null decimal has no value,
// so only omitempty or required apply to it.
func DecimalValue(v reflect.Value) interface{} {
	switch n := v.Interface().(type) {
	case decimal.Decimal:
		return n.String()
	case decimal.NullDecimal:
		if !n.Valid {
			return nil
		}
		return n.Decimal.String()
	default:
		return nil
	}
}

// Struct validates s and turns validator failures into a ValidationError naming the first
// offending field.
func Struct(c context.Context, s any) error {
	err := Get().StructCtx(c, s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return commonErrors.NewValidationError("%s failed on %s", fe.Field(), describe(fe))
	}
	return commonErrors.NewValidationError("%s", err.Error())
}

func describe(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}
