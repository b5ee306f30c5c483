package bookings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayment() PaymentDetails {
	return PaymentDetails{
		CardName:   "Asha Rao",
		CardNumber: "4111111111111111",
		CVV:        "123",
		Expiry:     "12/27",
	}
}

func TestPaymentValidatorAcceptsValidCard(t *testing.T) {
	assert.NoError(t, NewPaymentValidator().Validate(validPayment()))
}

func TestPaymentValidatorFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *PaymentDetails)
		field   string
		message string
	}{
		{"blank name", func(p *PaymentDetails) { p.CardName = "   " }, "card_name", "Please enter the name on your card"},
		{"short number", func(p *PaymentDetails) { p.CardNumber = "411111111111111" }, "card_number", "Please enter a valid 16-digit card number"},
		{"long number", func(p *PaymentDetails) { p.CardNumber = "41111111111111111" }, "card_number", "Please enter a valid 16-digit card number"},
		{"number with space", func(p *PaymentDetails) { p.CardNumber = "4111 11111111111" }, "card_number", "Please enter a valid 16-digit card number"},
		{"number with letters", func(p *PaymentDetails) { p.CardNumber = "411111111111111a" }, "card_number", "Please enter a valid 16-digit card number"},
		{"number ending in letters", func(p *PaymentDetails) { p.CardNumber = "12345678901234ab" }, "card_number", "Please enter a valid 16-digit card number"},
		{"non-ascii digits", func(p *PaymentDetails) { p.CardNumber = "४१११११११११११११११" }, "card_number", "Please enter a valid 16-digit card number"},
		{"short cvv", func(p *PaymentDetails) { p.CVV = "12" }, "cvv", "Please enter a valid 3-digit CVV"},
		{"cvv letters", func(p *PaymentDetails) { p.CVV = "12a" }, "cvv", "Please enter a valid 3-digit CVV"},
		{"expiry no slash", func(p *PaymentDetails) { p.Expiry = "1227" }, "expiry", "Please enter expiry date in MM/YY format"},
		{"expiry single-digit month", func(p *PaymentDetails) { p.Expiry = "9/27" }, "expiry", "Please enter expiry date in MM/YY format"},
		{"expiry long year", func(p *PaymentDetails) { p.Expiry = "12/2027" }, "expiry", "Please enter expiry date in MM/YY format"},
	}

	v := NewPaymentValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayment()
			tt.mutate(&p)

			err := v.Validate(p)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.message, verr.Error())
		})
	}
}

func TestPaymentValidatorAcceptsZeroPaddedMonth(t *testing.T) {
	p := validPayment()
	p.Expiry = "09/27"
	assert.NoError(t, NewPaymentValidator().Validate(p))
}

func TestPaymentValidatorDoesNotCheckMonth(t *testing.T) {
	p := validPayment()
	p.Expiry = "13/27"
	assert.NoError(t, NewPaymentValidator().Validate(p))

	p.Expiry = "01/00"
	assert.NoError(t, NewPaymentValidator().Validate(p))
}

func TestPaymentValidatorReportsFieldsInFormOrder(t *testing.T) {
	err := NewPaymentValidator().Validate(PaymentDetails{})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"card_name", "card_number", "cvv", "expiry"}, fields)
	assert.Equal(t, "Please enter the name on your card", verr.Error())
}
