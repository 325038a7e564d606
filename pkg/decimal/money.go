package decimal

import (
	"github.com/shopspring/decimal"
)

// Frequently used constants. decimal.Decimal is immutable so sharing them is safe.
var (
	One     = decimal.NewFromInt(1)
	Twelve  = decimal.NewFromInt(12)
	Hundred = decimal.NewFromInt(100)
)

// CentsTolerance is the tolerance used for currency comparisons (1 cent)
var CentsTolerance = decimal.NewFromFloat(0.01)

// Cents rounds an amount to two decimal places for emission
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RateRound rounds a ratio to four decimal places
func RateRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// GrowthFactor returns (1+rate)^years. Non-positive years yield 1 and a rate
// at or below -100% yields 0 so values never flip sign.
func GrowthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return One
	}
	base := One.Add(rate)
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return base.Pow(decimal.NewFromInt(int64(years)))
}

// Compound grows base by rate for the given number of years
func Compound(base, rate decimal.Decimal, years int) decimal.Decimal {
	return base.Mul(GrowthFactor(rate, years))
}

// FloorZero returns d, or zero when d is negative
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Clamp bounds d to [lo, hi]
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// SafeDiv divides num by den and returns zero when den is zero
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Percent converts a percentage (10 = 10%) to a fraction
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(Hundred)
}

// Sum adds all amounts
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Or returns *p when set, otherwise def
func Or(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if p == nil {
		return def
	}
	return *p
}

// NearlyEqual reports whether a and b differ by no more than tol
func NearlyEqual(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Annual converts a monthly amount to annual
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(Twelve)
}

// Monthly converts an annual amount to monthly
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(Twelve)
}

// Ptr returns a pointer to d, handy for optional fields
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
