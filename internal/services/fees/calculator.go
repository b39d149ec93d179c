// Package fees computes transaction fees from configurable fee schedules.
//
// A schedule is percentage + fixed, clamped to [minimum, maximum]. The
// percentage term is rounded to the currency's minor unit (half up) before
// the fixed fee is added and before clamping. Round-then-add is the
// contract every caller relies on; changing the order changes the last
// digit of the result.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"corepay/internal/money"
)

// Corridor identifies which schedule applies to a transaction.
type Corridor string

const (
	CorridorDomestic      Corridor = "domestic"
	CorridorInternational Corridor = "international"
)

var oneHundred = decimal.NewFromInt(100)

// Schedule holds the parameters governing a fee computation.
type Schedule struct {
	// Percentage is the rate applied to the amount, expressed 0-100.
	Percentage decimal.Decimal `json:"percentage"`
	Fixed      money.Money     `json:"fixed"`
	Minimum    money.Money     `json:"minimum"`
	Maximum    money.Money     `json:"maximum"`
}

// Validate checks the schedule invariants: non-negative rates and
// minimum <= maximum, all amounts in one currency.
func (s Schedule) Validate() error {
	if s.Percentage.IsNegative() || s.Fixed.IsNegative() {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrNegativeRate)
	}
	if s.Fixed.Currency != s.Minimum.Currency || s.Minimum.Currency != s.Maximum.Currency {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrMixedCurrencies)
	}
	cmp, err := s.Minimum.Cmp(s.Maximum)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if cmp > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrBoundsInverted)
	}
	return nil
}

// Calculator computes transaction fees. It is stateless and safe for
// concurrent use.
type Calculator struct{}

// NewCalculator creates a new fee Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute returns the fee for amount under the given schedule.
//
// The raw fee is round(amount * percentage / 100) + fixed, with the
// percentage term rounded to the currency's minor unit half up, then
// clamped to [minimum, maximum]. A zero amount therefore still pays
// clamp(fixed, minimum, maximum); whether zero-amount transactions should
// bypass the minimum is a product question, and until it is answered the
// minimum applies.
//
// It fails with ErrInvalidArgument on a negative amount or a schedule that
// violates its invariants. Callers should validate schedules once at save
// time rather than lean on this check per transaction.
func (c *Calculator) Compute(amount money.Money, s Schedule) (money.Money, error) {
	if amount.IsNegative() {
		return money.Money{}, fmt.Errorf("%w: %w", ErrInvalidArgument, ErrNegativeAmount)
	}
	if err := s.Validate(); err != nil {
		return money.Money{}, err
	}
	if amount.Currency != s.Fixed.Currency {
		return money.Money{}, fmt.Errorf("%w: %w", ErrInvalidArgument, ErrMixedCurrencies)
	}

	pctTerm := money.New(amount.Amount.Mul(s.Percentage).Div(oneHundred), amount.Currency).RoundMinor()
	raw, err := pctTerm.Add(s.Fixed)
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if cmp, _ := raw.Cmp(s.Minimum); cmp < 0 {
		return s.Minimum, nil
	}
	if cmp, _ := raw.Cmp(s.Maximum); cmp > 0 {
		return s.Maximum, nil
	}
	return raw, nil
}
