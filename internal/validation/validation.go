package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// phone is intentionally loose: digits with the usual separators.
var phoneRe = regexp.MustCompile(`^\+?[0-9\-().\s]{7,20}$`)

// FieldError is a single field-level violation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Violations is the error returned when one or more fields fail validation.
type Violations []FieldError

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Reason))
	}
	return strings.Join(parts, "; ")
}

// OrNil returns v as an error, or nil when there are no violations.
func (v Violations) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Customer checks candidate customer fields. Uniqueness of the email is a
// store-level concern and is checked separately by the mutation engine.
func Customer(name, email, phone string) error {
	var v Violations
	if strings.TrimSpace(name) == "" {
		v = append(v, FieldError{Field: "name", Reason: "is required"})
	}
	if err := validate.Var(email, "required,email"); err != nil {
		v = append(v, FieldError{Field: "email", Reason: "must be a valid email address"})
	}
	if phone != "" && !phoneRe.MatchString(phone) {
		v = append(v, FieldError{Field: "phone", Reason: "must be a plausible phone number"})
	}
	return v.OrNil()
}

// Product checks candidate product fields.
func Product(name string, price decimal.Decimal, stock int64) error {
	var v Violations
	if strings.TrimSpace(name) == "" {
		v = append(v, FieldError{Field: "name", Reason: "is required"})
	}
	if price.Sign() <= 0 {
		v = append(v, FieldError{Field: "price", Reason: "must be positive"})
	}
	if stock < 0 {
		v = append(v, FieldError{Field: "stock", Reason: "cannot be negative"})
	}
	return v.OrNil()
}
