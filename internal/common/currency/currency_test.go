package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/storefront/internal/config"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		display  config.Display
		expected string
	}{
		{
			name:     "given zero should render two fraction digits",
			amount:   decimal.Zero,
			display:  config.DefaultDisplay(),
			expected: "₺0,00",
		},
		{
			name:     "given thousands should group digits",
			amount:   decimal.RequireFromString("1234567.5"),
			display:  config.DefaultDisplay(),
			expected: "₺1.234.567,50",
		},
		{
			name:     "given three digit amount should not group",
			amount:   decimal.RequireFromString("999.99"),
			display:  config.DefaultDisplay(),
			expected: "₺999,99",
		},
		{
			name:     "given negative amount should prefix sign",
			amount:   decimal.RequireFromString("-10"),
			display:  config.DefaultDisplay(),
			expected: "-₺10,00",
		},
		{
			name:     "given negative amount rounding to zero should drop sign",
			amount:   decimal.RequireFromString("-0.004"),
			display:  config.DefaultDisplay(),
			expected: "₺0,00",
		},
		{
			name:     "given negative amount rounding away from zero should keep sign",
			amount:   decimal.RequireFromString("-0.005"),
			display:  config.DefaultDisplay(),
			expected: "-₺0,01",
		},
		{
			name:   "given symbol after should append symbol",
			amount: decimal.RequireFromString("1000"),
			display: config.Display{
				CurrencySymbol:   "TL",
				DecimalSeparator: ",",
				GroupSeparator:   ".",
				SymbolAfter:      true,
			},
			expected: "1.000,00 TL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.amount, tt.display))
		})
	}
}
