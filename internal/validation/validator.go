package validation

import (
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	mobileRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	panRe    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// New returns a validator with the donation form tags registered and field
// names reported by their json names.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("in_mobile", func(fl validatorv10.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pan", func(fl validatorv10.FieldLevel) bool {
		return panRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("amount", func(fl validatorv10.FieldLevel) bool {
		_, err := CleanAmount(fl.Field().String())
		return err == nil
	})

	return v
}

// Prepare normalizes the form, validates it and returns the cleaned form with
// the numeric amount to charge. Validation failures are returned as
// validator.ValidationErrors.
func Prepare(v *validatorv10.Validate, f DonationForm) (DonationForm, decimal.Decimal, error) {
	f = f.Normalize()
	if err := v.Struct(f); err != nil {
		return f, decimal.Zero, err
	}
	amount, err := CleanAmount(f.Amount)
	if err != nil {
		return f, decimal.Zero, err
	}
	return f, amount, nil
}
