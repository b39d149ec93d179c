package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundMinor(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"half up at two decimals", "25.305", "USD", "25.31"},
		{"below half stays", "25.304", "USD", "25.30"},
		{"zero decimal currency", "1200.5", "JPY", "1201"},
		{"three decimal currency", "1.2345", "KWD", "1.235"},
		{"unknown currency defaults to two", "3.555", "XTS", "3.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(decimal.RequireFromString(tt.amount), tt.currency)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, m.RoundMinor().Amount.Equal(want),
				"got %s, want %s", m.RoundMinor().Amount, want)
		})
	}
}

func TestAddCurrencyMismatch(t *testing.T) {
	usd := FromFloat(10, "USD")
	eur := FromFloat(10, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Cmp(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestString(t *testing.T) {
	assert.Equal(t, "25.30 USD", FromFloat(25.3, "USD").String())
	assert.Equal(t, "1200 JPY", FromFloat(1200, "JPY").String())
}
