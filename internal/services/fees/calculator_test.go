package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corepay/internal/money"
)

// domesticSchedule mirrors the default domestic card-processing schedule:
// 2.5% + 0.30, clamped to [0.10, 50.00].
func domesticSchedule() Schedule {
	return Schedule{
		Percentage: decimal.RequireFromString("2.5"),
		Fixed:      money.FromFloat(0.30, "USD"),
		Minimum:    money.FromFloat(0.10, "USD"),
		Maximum:    money.FromFloat(50.00, "USD"),
	}
}

func TestCompute(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"worked example", "1000", "25.30"},
		{"zero amount pays clamped fixed fee", "0", "0.30"},
		{"small amount", "1", "0.33"},
		{"large amount hits maximum", "100000", "50.00"},
		{"percentage rounds half up before fixed is added", "10.10", "0.55"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Compute(money.New(decimal.RequireFromString(tt.amount), "USD"), domesticSchedule())
			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got.Amount, tt.want)
		})
	}
}

func TestComputeRoundThenAdd(t *testing.T) {
	// 10.30 * 2.5% = 0.2575, which rounds half up to 0.26 before the 0.30
	// fixed fee is added. The rounded percentage term is the contract.
	calc := NewCalculator()
	got, err := calc.Compute(money.New(decimal.RequireFromString("10.30"), "USD"), domesticSchedule())
	require.NoError(t, err)
	assert.Equal(t, "0.56 USD", got.String())
}

func TestComputeBounds(t *testing.T) {
	calc := NewCalculator()
	s := domesticSchedule()

	amounts := []string{"0", "0.01", "1", "12.34", "100", "999.99", "1000", "5000", "1000000"}
	for _, a := range amounts {
		got, err := calc.Compute(money.New(decimal.RequireFromString(a), "USD"), s)
		require.NoError(t, err)

		low, _ := got.Cmp(s.Minimum)
		high, _ := got.Cmp(s.Maximum)
		assert.GreaterOrEqual(t, low, 0, "fee %s below minimum for amount %s", got, a)
		assert.LessOrEqual(t, high, 0, "fee %s above maximum for amount %s", got, a)
	}
}

func TestComputeMonotonic(t *testing.T) {
	calc := NewCalculator()
	s := domesticSchedule()

	var prev money.Money
	amounts := []string{"0", "1", "2", "10", "100", "500", "1999", "2000", "2001", "100000"}
	for i, a := range amounts {
		got, err := calc.Compute(money.New(decimal.RequireFromString(a), "USD"), s)
		require.NoError(t, err)
		if i > 0 {
			cmp, _ := prev.Cmp(got)
			assert.LessOrEqual(t, cmp, 0, "fee decreased between %s and %s", amounts[i-1], a)
		}
		prev = got
	}
}

func TestComputeInvalidArguments(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		amount   money.Money
		mutate   func(*Schedule)
		sentinel error
	}{
		{
			name:     "negative amount",
			amount:   money.FromFloat(-1, "USD"),
			mutate:   func(*Schedule) {},
			sentinel: ErrNegativeAmount,
		},
		{
			name:     "negative percentage",
			amount:   money.FromFloat(10, "USD"),
			mutate:   func(s *Schedule) { s.Percentage = decimal.NewFromInt(-1) },
			sentinel: ErrNegativeRate,
		},
		{
			name:     "negative fixed fee",
			amount:   money.FromFloat(10, "USD"),
			mutate:   func(s *Schedule) { s.Fixed = money.FromFloat(-0.30, "USD") },
			sentinel: ErrNegativeRate,
		},
		{
			name:     "minimum above maximum",
			amount:   money.FromFloat(10, "USD"),
			mutate:   func(s *Schedule) { s.Minimum = money.FromFloat(60, "USD") },
			sentinel: ErrBoundsInverted,
		},
		{
			name:     "amount currency differs from schedule",
			amount:   money.FromFloat(10, "EUR"),
			mutate:   func(*Schedule) {},
			sentinel: ErrMixedCurrencies,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domesticSchedule()
			tt.mutate(&s)

			_, err := calc.Compute(tt.amount, s)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}
