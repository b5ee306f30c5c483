package bookings

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"branchdesk/internal/shared/utils/response"

	"github.com/go-playground/validator/v10"
)

// PaymentDetails are the card fields of the checkout form. They are only
// validated, never stored.
type PaymentDetails struct {
	CardName   string `json:"card_name" validate:"notblank"`
	CardNumber string `json:"card_number" validate:"len=16,number"`
	CVV        string `json:"cvv" validate:"len=3,number"`
	Expiry     string `json:"expiry" validate:"expiry"`
}

// field messages, keyed by json name
var paymentMessages = map[string]string{
	"card_name":   "Please enter the name on your card",
	"card_number": "Please enter a valid 16-digit card number",
	"cvv":         "Please enter a valid 3-digit CVV",
	"expiry":      "Please enter expiry date in MM/YY format",
}

// Month and year are not range checked, "13/27" is accepted
var expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

// ValidationError lists the rejected fields in form order
type ValidationError struct {
	Fields []response.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

type PaymentValidator struct {
	validate *validator.Validate
}

func NewPaymentValidator() *PaymentValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// both registrations only fail on an empty tag name
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})

	return &PaymentValidator{validate: v}
}

// Validate returns nil or a *ValidationError
func (pv *PaymentValidator) Validate(details PaymentDetails) error {
	err := pv.validate.Struct(details)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	seen := make(map[string]bool, len(verrs))
	out := &ValidationError{}
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out.Fields = append(out.Fields, response.FieldError{
			Field:   fe.Field(),
			Message: paymentMessages[fe.Field()],
		})
	}
	return out
}
