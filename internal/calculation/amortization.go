package calculation

import (
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// AmortizationResult is one year of a loan's schedule
type AmortizationResult struct {
	NewBalance          decimal.Decimal
	InterestPaid        decimal.Decimal
	PrincipalPaid       decimal.Decimal
	PaymentDue          decimal.Decimal
	InterestCapitalized decimal.Decimal
}

// AmortizeYear advances a loan by one year.
//
// With no remaining term (or no balance) the loan is terminal and everything is zero.
// During deferment no payment is due; unsubsidized loans capitalize the year's
// interest. Otherwise the fixed payment over the remaining term is charged so the
// balance reaches exactly zero in the final year. A non-positive rate falls back to
// straight-line principal.
func AmortizeYear(balance, rate decimal.Decimal, remainingTerm int, deferred, subsidized bool) AmortizationResult {
	if remainingTerm <= 0 || !balance.IsPositive() {
		return AmortizationResult{}
	}

	if deferred {
		if subsidized || !rate.IsPositive() {
			return AmortizationResult{NewBalance: balance}
		}
		interest := balance.Mul(rate)
		return AmortizationResult{NewBalance: balance.Add(interest), InterestCapitalized: interest}
	}

	if !rate.IsPositive() {
		principal := balance
		if remainingTerm > 1 {
			principal = balance.Div(decimal.NewFromInt(int64(remainingTerm)))
		}
		return AmortizationResult{
			NewBalance:    money.FloorZero(balance.Sub(principal)),
			PrincipalPaid: principal,
			PaymentDue:    principal,
		}
	}

	interest := balance.Mul(rate)
	if remainingTerm == 1 {
		return AmortizationResult{
			NewBalance:    decimal.Zero,
			InterestPaid:  interest,
			PrincipalPaid: balance,
			PaymentDue:    balance.Add(interest),
		}
	}

	payment := FixedPayment(balance, rate, remainingTerm)
	principal := money.Clamp(payment.Sub(interest), decimal.Zero, balance)
	return AmortizationResult{
		NewBalance:    money.FloorZero(balance.Sub(principal)),
		InterestPaid:  interest,
		PrincipalPaid: principal,
		PaymentDue:    interest.Add(principal),
	}
}

// FixedPayment is the level annual payment that retires balance over years at rate
func FixedPayment(balance, rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimal.Zero
	}
	if !rate.IsPositive() {
		return balance.Div(decimal.NewFromInt(int64(years)))
	}
	f := money.GrowthFactor(rate, years)
	return money.SafeDiv(balance.Mul(rate).Mul(f), f.Sub(money.One))
}
