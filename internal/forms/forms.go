// Package forms parses and validates user-submitted forms.
// Invalid input is reported per field and never reaches the ledger.
package forms

import (
	"errors"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/payment"
	"github.com/liftedinit/gopay/internal/utils"
)

const requiredMsg = "Required"

// ValidationError maps form field names to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return "invalid form fields: " + strings.Join(names, ", ")
}

// Field returns the message for name, or "" when the field is valid.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// AsValidationError returns the ValidationError wrapped in err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

var loginMessages = map[string]string{
	"email":    "Valid email required",
	"password": "Password must be at least 6 characters",
}

func ParseLogin(values url.Values) (LoginForm, error) {
	f := LoginForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
	return f, validate(f, loginMessages, nil)
}

type PaymentForm struct {
	Amount      float64 `form:"amount" validate:"gte=0"`
	Currency    string  `form:"currency" validate:"required,oneof=USD EUR GBP JPY INR"`
	Recipient   string  `form:"recipient" validate:"required"`
	Description string  `form:"description"`
}

var paymentMessages = map[string]string{
	"amount":    "Valid amount required",
	"currency":  "Currency required",
	"recipient": "Recipient required",
}

func ParsePayment(values url.Values) (PaymentForm, error) {
	f := PaymentForm{
		Currency:    strings.TrimSpace(values.Get("currency")),
		Recipient:   strings.TrimSpace(values.Get("recipient")),
		Description: strings.TrimSpace(values.Get("description")),
	}

	invalid := map[string]string{}
	amount, err := strconv.ParseFloat(strings.TrimSpace(values.Get("amount")), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		invalid["amount"] = paymentMessages["amount"]
	} else {
		f.Amount = amount
	}

	return f, validate(f, paymentMessages, invalid)
}

// Request converts the form into a payment request.
func (f PaymentForm) Request() payment.Request {
	return payment.Request{
		Amount:      f.Amount,
		Currency:    f.Currency,
		Recipient:   f.Recipient,
		Description: f.Description,
	}
}

type KYCForm struct {
	FirstName      string `form:"firstName" validate:"required"`
	LastName       string `form:"lastName" validate:"required"`
	DateOfBirth    string `form:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Address        string `form:"address" validate:"required"`
	DocumentType   string `form:"documentType" validate:"required,oneof=passport id license"`
	DocumentNumber string `form:"documentNumber" validate:"required"`
}

func ParseKYC(values url.Values) (KYCForm, error) {
	f := KYCForm{
		FirstName:      strings.TrimSpace(values.Get("firstName")),
		LastName:       strings.TrimSpace(values.Get("lastName")),
		DateOfBirth:    strings.TrimSpace(values.Get("dateOfBirth")),
		Address:        strings.TrimSpace(values.Get("address")),
		DocumentType:   strings.TrimSpace(values.Get("documentType")),
		DocumentNumber: strings.TrimSpace(values.Get("documentNumber")),
	}
	return f, validate(f, nil, nil)
}

// Data converts the form into the stored KYC record.
func (f KYCForm) Data() models.KYCData {
	return models.KYCData{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		DateOfBirth:    f.DateOfBirth,
		Address:        f.Address,
		DocumentType:   f.DocumentType,
		DocumentNumber: f.DocumentNumber,
	}
}

// validate runs struct validation and merges its failures with already known invalid fields.
// Fields without a dedicated message get requiredMsg.
func validate(form any, messages map[string]string, invalid map[string]string) error {
	fields := map[string]string{}
	for name, msg := range invalid {
		fields[name] = msg
	}

	if err := utils.Validator().Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			name := fe.Field()
			if _, seen := fields[name]; seen {
				continue
			}
			msg, ok := messages[name]
			if !ok {
				msg = requiredMsg
			}
			fields[name] = msg
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
