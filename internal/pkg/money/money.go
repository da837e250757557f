// Package money holds decimal amounts paired with an ISO currency code.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the storefront's display currency
const DefaultCurrency = "EGP"

// Money is an exact decimal amount in a currency
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// New builds a Money from a whole or fractional amount
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, CurrencyCode: normalizeCurrency(currency)}
}

// FromInt builds a Money from a whole-unit amount
func FromInt(amount int64, currency string) Money {
	return New(decimal.NewFromInt(amount), currency)
}

// Parse builds a Money from the string amounts returned by the commerce API ("350.0")
func Parse(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return New(d, currency), nil
}

// Mul returns the amount multiplied by a quantity
func (m Money) Mul(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), CurrencyCode: m.CurrencyCode}
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Currency returns the upper-cased currency code, DefaultCurrency when unset
func (m Money) Currency() string {
	return normalizeCurrency(m.CurrencyCode)
}

// Format renders the amount rounded to places decimals, e.g. "EGP 250.00".
// Rounding happens here only; stored amounts stay exact.
func (m Money) Format(places int32) string {
	return fmt.Sprintf("%s %s", m.Currency(), m.Amount.StringFixed(places))
}

// String implements fmt.Stringer with two decimal places
func (m Money) String() string {
	return m.Format(2)
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}
