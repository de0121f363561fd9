package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount represents an exact monetary value in a specific currency.
// It uses decimal arithmetic to avoid floating point precision issues.
//
// Amounts in different currencies must never be combined; doing so is a
// programming error, not a data error, and Add/Sub panic on a currency
// mismatch. The classifier rejects malformed ledger data before any
// arithmetic happens, so a mismatch can only come from engine code.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// Zero returns the zero amount for a currency. It is the additive
// identity used to seed every aggregation and map default.
func Zero(currency string) Amount {
	return Amount{Number: decimal.Zero, Currency: currency}
}

// NewAmount creates an Amount from a decimal string like "250.00".
func NewAmount(value, currency string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount value %q: %w", value, err)
	}
	return Amount{Number: d, Currency: currency}, nil
}

// MustAmount creates an Amount from a decimal string and panics on error.
// Use only in tests or when you're certain the value is valid.
func MustAmount(value, currency string) Amount {
	a, err := NewAmount(value, currency)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) checkCurrency(b Amount) {
	if a.Currency != b.Currency {
		panic(fmt.Sprintf("amount currency mismatch: %s vs %s", a.Currency, b.Currency))
	}
}

// Add returns a + b. Panics if the currencies differ.
func (a Amount) Add(b Amount) Amount {
	a.checkCurrency(b)
	return Amount{Number: a.Number.Add(b.Number), Currency: a.Currency}
}

// Sub returns a - b. Panics if the currencies differ.
func (a Amount) Sub(b Amount) Amount {
	a.checkCurrency(b)
	return Amount{Number: a.Number.Sub(b.Number), Currency: a.Currency}
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Number: a.Number.Neg(), Currency: a.Currency}
}

// IsZero returns true if the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.Number.IsZero()
}

// IsNegative returns true if the amount is strictly below zero.
func (a Amount) IsNegative() bool {
	return a.Number.IsNegative()
}

// Equal compares value and currency. Decimal equality is exact but
// scale-insensitive, so "50" equals "50.00".
func (a Amount) Equal(b Amount) bool {
	return a.Currency == b.Currency && a.Number.Equal(b.Number)
}

// String returns the amount in beancount order, e.g. "250.00 AUD".
func (a Amount) String() string {
	return a.Number.String() + " " + a.Currency
}
