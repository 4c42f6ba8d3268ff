package forms_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/forms"
)

func requireFields(t *testing.T, err error, want map[string]string) {
	t.Helper()
	verr, ok := forms.AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, want, verr.Fields)
}

func TestParseLogin(t *testing.T) {
	f, err := forms.ParseLogin(url.Values{"email": {" alice@example.com "}, "password": {"secret1"}})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", f.Email)

	_, err = forms.ParseLogin(url.Values{"email": {"not-an-email"}, "password": {"12345"}})
	requireFields(t, err, map[string]string{
		"email":    "Valid email required",
		"password": "Password must be at least 6 characters",
	})

	_, err = forms.ParseLogin(url.Values{})
	requireFields(t, err, map[string]string{
		"email":    "Valid email required",
		"password": "Password must be at least 6 characters",
	})
}

func TestParsePayment(t *testing.T) {
	f, err := forms.ParsePayment(url.Values{
		"amount":      {"12.50"},
		"currency":    {"EUR"},
		"recipient":   {"bob"},
		"description": {"rent"},
	})
	require.NoError(t, err)
	req := f.Request()
	assert.Equal(t, 12.5, req.Amount)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, "bob", req.Recipient)
	assert.Equal(t, "rent", req.Description)

	_, err = forms.ParsePayment(url.Values{"amount": {"0"}, "currency": {"USD"}, "recipient": {"bob"}})
	assert.NoError(t, err, "zero is a valid amount")
}

func TestParsePaymentInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   map[string]string
	}{
		{
			name:   "Empty",
			values: url.Values{},
			want: map[string]string{
				"amount":    "Valid amount required",
				"currency":  "Currency required",
				"recipient": "Recipient required",
			},
		},
		{
			name:   "NegativeAmount",
			values: url.Values{"amount": {"-1"}, "currency": {"USD"}, "recipient": {"bob"}},
			want:   map[string]string{"amount": "Valid amount required"},
		},
		{
			name:   "NotANumber",
			values: url.Values{"amount": {"NaN"}, "currency": {"USD"}, "recipient": {"bob"}},
			want:   map[string]string{"amount": "Valid amount required"},
		},
		{
			name:   "UnknownCurrency",
			values: url.Values{"amount": {"5"}, "currency": {"BTC"}, "recipient": {"bob"}},
			want:   map[string]string{"currency": "Currency required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := forms.ParsePayment(tt.values)
			requireFields(t, err, tt.want)
		})
	}
}

func TestParseKYC(t *testing.T) {
	values := url.Values{
		"firstName":      {"Alice"},
		"lastName":       {"Smith"},
		"dateOfBirth":    {"1990-04-01"},
		"address":        {"1 Main St"},
		"documentType":   {"passport"},
		"documentNumber": {"X1234567"},
	}
	f, err := forms.ParseKYC(values)
	require.NoError(t, err)
	data := f.Data()
	assert.Equal(t, "Alice", data.FirstName)
	assert.Equal(t, "passport", data.DocumentType)
	assert.False(t, data.Verified)

	values.Set("dateOfBirth", "01/04/1990")
	values.Set("documentType", "library-card")
	values.Del("address")
	_, err = forms.ParseKYC(values)
	requireFields(t, err, map[string]string{
		"dateOfBirth":  "Required",
		"documentType": "Required",
		"address":      "Required",
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := &forms.ValidationError{Fields: map[string]string{"b": "x", "a": "y"}}
	assert.Equal(t, "invalid form fields: a, b", err.Error())
	assert.Equal(t, "y", err.Field("a"))
	assert.Equal(t, "", err.Field("c"))

	var nilErr *forms.ValidationError
	assert.Equal(t, "", nilErr.Field("a"))
}
