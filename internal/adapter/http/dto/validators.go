package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"growfi-backend/internal/core/domain"
	"growfi-backend/pkg/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerValidators(v)
	}
}

func registerValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("currency", validateCurrency)
	_ = v.RegisterValidation("hex_color", validateHexColor)
}

// jsonFieldName reports fields by their JSON name so errors match the request body.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// outOfRange stands in for decimals too large or too fine to render.
// It fails the money tag and leaves the amount rules to the domain.
const outOfRange = "out-of-range"

// decimalValue lets tags treat a decimal as its canonical string. Values that
// cannot fit an amount column are never rendered.
func decimalValue(v reflect.Value) interface{} {
	if d, ok := v.Interface().(decimal.Decimal); ok {
		if domain.AmountOutOfRange(d) {
			return outOfRange
		}
		return d.String()
	}
	return nil
}

// validateMoney accepts non-negative amounts up to 999999999999.99 with at
// most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	_, err = domain.FitAmount(fl.FieldName(), d)
	return err == nil
}

// validateCurrency accepts three uppercase letters (ISO 4217 shape).
func validateCurrency(fl validator.FieldLevel) bool {
	return currencyRe.MatchString(fl.Field().String())
}

// validateHexColor accepts #RRGGBB.
func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRe.MatchString(fl.Field().String())
}

// BindError converts a ShouldBindJSON failure into a VAL_001 error. Validator
// failures report the first offending field; decode failures keep the message.
func BindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.ErrValidation(fe.Field(), reasonFor(fe))
	}
	return apperror.Validation("invalid request body: " + err.Error())
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "money":
		return "must be a non-negative amount up to " + domain.MaxAmount.StringFixed(2) + " with at most 2 decimal places"
	case "currency":
		return "must be a 3-letter uppercase code"
	case "hex_color":
		return "must look like #RRGGBB"
	}
	return "failed " + fe.Tag() + " check"
}

// SanitizeStruct trims whitespace and drops control characters from every
// exported string field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
