package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyARS formats an amount the way receipts print it.
// Example: 15000.5 -> "$ 15.000,50"
func FormatCurrencyARS(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	formatted := amount.Abs().StringFixed(2)

	parts := strings.SplitN(formatted, ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	// thousands separator
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := "$ " + strings.Join(groups, ".") + "," + decimalPart
	if negative {
		out = "-" + out
	}
	return out
}
