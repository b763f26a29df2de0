package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"catalog_service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	// NUMERIC(10, 2): eight digits before the point, two after.
	priceLimit = decimal.New(1, 8)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			return d.String()
		case domain.Price:
			return d.String()
		}
		return nil
	}, decimal.Decimal{}, domain.Price{})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return !d.IsNegative() && d.LessThan(priceLimit) && d.Equal(d.Round(2))
	})
	return v
}

var validate = newValidator()

// validateStruct returns the field errors of v, empty when v is valid.
func validateStruct(v any) *domain.ValidationError {
	verr := &domain.ValidationError{}
	err := validate.Struct(v)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("non_field_errors", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "price":
		return "Ensure this value is a non-negative number with no more than 8 digits before and 2 after the decimal point."
	}
	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

func errOrNil(verr *domain.ValidationError) error {
	if verr == nil || verr.Empty() {
		return nil
	}
	return verr
}
