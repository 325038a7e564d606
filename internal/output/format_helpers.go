package output

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.0765) as a percentage (7.65%).
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Shift(2)) }

func intToString(i int) string { return strconv.Itoa(i) }

func optionalAge(age *int) string {
	if age == nil {
		return ""
	}
	return intToString(*age)
}

func at(series []decimal.Decimal, i int) decimal.Decimal {
	if i < 0 || i >= len(series) {
		return decimal.Zero
	}
	return series[i]
}
