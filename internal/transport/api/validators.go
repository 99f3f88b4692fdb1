package api

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// decimalValue отдает валидатору decimal.Decimal как строку, иначе теги к полю не применяются.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateDecimalGt0 проверяет, что сумма строго больше нуля.
func validateDecimalGt0(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return false
	}
	return d.IsPositive()
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("decimal_gt0", validateDecimalGt0); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
