package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomer_Valid(t *testing.T) {
	assert.NoError(t, Customer("Alice", "alice@example.com", ""))
	assert.NoError(t, Customer("Bob", "bob@example.com", "+1-800-555-1234"))
	assert.NoError(t, Customer("Carol", "carol@example.com", "(495) 123-45-67"))
}

func TestCustomer_Invalid(t *testing.T) {
	cases := []struct {
		name, email, phone string
		field              string
	}{
		{"", "a@x.com", "", "name"},
		{"   ", "a@x.com", "", "name"},
		{"Ann", "", "", "email"},
		{"Ann", "not-an-email", "", "email"},
		{"Ann", "a@x.com", "hello", "phone"},
		{"Ann", "a@x.com", "12", "phone"},
	}
	for _, tc := range cases {
		err := Customer(tc.name, tc.email, tc.phone)
		require.Error(t, err, "expected violation for %+v", tc)
		var v Violations
		require.True(t, errors.As(err, &v))
		assert.Equal(t, tc.field, v[0].Field)
	}
}

func TestCustomer_CollectsAllViolations(t *testing.T) {
	err := Customer("", "bad", "nope")
	var v Violations
	require.ErrorAs(t, err, &v)
	assert.Len(t, v, 3)
}

func TestProduct(t *testing.T) {
	assert.NoError(t, Product("Coffee", decimal.RequireFromString("2.50"), 0))

	err := Product("Coffee", decimal.Zero, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")

	err = Product("Coffee", decimal.RequireFromString("2.50"), -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}
