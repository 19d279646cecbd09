package currency

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/config"
)

// Format renders amount for display with two fraction digits. The canonical value is never
// replaced by the formatted string.
func Format(amount decimal.Decimal, display config.Display) string {
	// the sign follows the rounded amount so -0.004 renders as zero
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, fraction, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(display.GroupSeparator)
		}
		b.WriteRune(digit)
	}
	number := b.String() + display.DecimalSeparator + fraction

	if display.SymbolAfter {
		return sign + number + " " + display.CurrencySymbol
	}
	return sign + display.CurrencySymbol + number
}
