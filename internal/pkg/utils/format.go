package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount converts an amount in minimal denomination into display units.
// Example: amount=1234500000, decimals=9 => "1.2345"
func FormatAmount(amount decimal.Decimal, decimals int32) string {
	if decimals <= 0 {
		return amount.String()
	}
	value := amount.Shift(-decimals)

	formatted := value.StringFixed(decimals)
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	if formatted == "" || formatted == "-0" {
		return "0"
	}
	return formatted
}
