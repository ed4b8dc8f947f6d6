package utils

import (
	"fmt"
	"strings"
)

// FormatAmount formats a bill amount with thousands separators and two
// decimals, prefixed by the currency code when one is given.
// Example: FormatAmount(1234.5, "USD") -> "USD 1,234.50"
func FormatAmount(amount float64, currency string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := strings.Join(groups, ",") + "." + decimalPart
	if negative {
		out = "-" + out
	}
	if currency != "" {
		out = currency + " " + out
	}
	return out
}
