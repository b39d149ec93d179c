// Package money provides a fixed-point monetary value type.
//
// Amounts are backed by shopspring/decimal so repeated fee computations never
// accumulate binary floating-point drift. Every value carries an ISO 4217
// currency code, and rounding always targets that currency's minor unit.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnits maps ISO 4217 codes to their minor-unit exponent where it
// differs from the usual 2.
var minorUnits = map[string]int32{
	"BHD": 3,
	"JOD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"CLP": 0,
}

// ErrCurrencyMismatch is returned when two amounts in different currencies
// are combined or compared.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// New creates a Money value from a decimal amount and currency code.
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// FromFloat creates a Money value from a float, rounded to the currency's
// minor unit. Intended for configuration defaults and request payloads, not
// for arithmetic.
func FromFloat(amount float64, currency string) Money {
	return New(decimal.NewFromFloat(amount), currency).RoundMinor()
}

// MinorUnitExponent returns the number of minor-unit digits for a currency.
func MinorUnitExponent(currency string) int32 {
	if exp, ok := minorUnits[currency]; ok {
		return exp
	}
	return 2
}

// RoundMinor rounds the amount to the currency's minor unit, half up.
// Decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts this package deals in.
func (m Money) RoundMinor() Money {
	return Money{Amount: m.Amount.Round(MinorUnitExponent(m.Currency)), Currency: m.Currency}
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Cmp compares m against other: -1 if less, 0 if equal, 1 if greater.
func (m Money) Cmp(other Money) (int, error) {
	if m.Currency != other.Currency {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.Cmp(other.Amount), nil
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal reports whether both currency and amount match.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String renders the amount with its currency code, e.g. "25.30 USD".
func (m Money) String() string {
	return m.Amount.StringFixed(MinorUnitExponent(m.Currency)) + " " + m.Currency
}
