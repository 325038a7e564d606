package calculation

import (
	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// projector drives the year-by-year loop for one run
type projector struct {
	startAge int
	horizon  int
	state    *runState
	schedule *Schedule
	taxes    *ComprehensiveTaxCalculator
	rec      *recorder
}

func (p *projector) run() []domain.YearRow {
	rows := make([]domain.YearRow, 0, p.horizon)
	for i := 0; i < p.horizon; i++ {
		rows = append(rows, p.step(i))
	}
	return rows
}

// step simulates year i. Values are end-of-year: milestone effects land at the
// start of the year, then assets grow, loans amortize, streams accrue, taxes are
// assessed and the remaining cash is reconciled into savings or debt.
func (p *projector) step(i int) domain.YearRow {
	s := p.state
	s.beginYear()

	for _, se := range p.schedule.EffectsFor(i) {
		s.apply(se, i)
	}

	// Grow or depreciate assets (floored at zero)
	for _, a := range s.assets {
		a.value = money.FloorZero(a.value.Mul(money.One.Add(a.GrowthRate)))
	}

	// Amortize liabilities
	var debtPayments, interestPaid, principalPaid decimal.Decimal
	for _, l := range s.liabilities {
		remaining := l.remaining()
		if remaining <= 0 {
			l.balance = decimal.Zero
			l.elapsed++
			continue
		}
		res := AmortizeYear(l.balance, l.InterestRate, remaining, l.deferred(), l.Subsidized)
		l.balance = res.NewBalance
		l.elapsed++
		debtPayments = debtPayments.Add(res.PaymentDue)
		interestPaid = interestPaid.Add(res.InterestPaid)
		principalPaid = principalPaid.Add(res.PrincipalPaid)
	}

	// Expenses by category
	categories := make(map[domain.ExpenseCategory]decimal.Decimal, len(domain.ExpenseCategories))
	for _, c := range domain.ExpenseCategories {
		categories[c] = decimal.Zero
	}
	for _, e := range s.expenses {
		if e.active(i) {
			categories[e.Type] = categories[e.Type].Add(e.amount(i, s.loc))
		}
	}
	for _, c := range s.oneTime {
		categories[c.category] = categories[c.category].Add(c.amount)
	}
	categories[domain.CategoryDebt] = categories[domain.CategoryDebt].Add(debtPayments)

	totalExpenses := decimal.Zero
	for _, c := range domain.ExpenseCategories {
		totalExpenses = totalExpenses.Add(categories[c])
	}

	// Income
	var gross, taxable, earned decimal.Decimal
	for _, inc := range s.incomes {
		if !inc.active(i) {
			continue
		}
		amt := inc.amount(i, s.loc)
		gross = gross.Add(amt)
		if inc.Taxable() {
			taxable = taxable.Add(amt)
		}
		if inc.Type.IsEarned() {
			earned = earned.Add(amt)
		}
	}

	contribution := s.policy.RetirementRate.Mul(earned)
	taxes := p.taxes.CalculateTotalTaxes(TaxableIncome{Gross: gross, Taxable: taxable, Earned: earned, PreTax: contribution}, s.filing)

	net := gross.
		Sub(taxes.TotalTax).
		Sub(totalExpenses).
		Sub(contribution).
		Sub(s.outlay).
		Add(s.financing)

	if contribution.IsPositive() {
		r := s.retirementAsset()
		r.value = r.value.Add(contribution)
	}

	// Reconcile: surplus to savings; shortfall from savings above the floor, then debt
	var draw, borrowed decimal.Decimal
	switch {
	case net.IsPositive():
		sv := s.savingsAsset()
		sv.value = sv.value.Add(net)
	case net.IsNegative():
		shortfall := net.Neg()
		if s.savings != nil {
			available := money.FloorZero(s.savings.value.Sub(s.policy.EmergencyFund))
			draw = decimal.Min(available, shortfall)
			s.savings.value = s.savings.value.Sub(draw)
		}
		borrowed = shortfall.Sub(draw)
		if borrowed.IsPositive() {
			s.borrow(borrowed)
			p.rec.info("cash flow", yearPtr(i), "shortfall of %s covered by personal loan", borrowed.StringFixed(2))
		}
	}

	row := domain.YearRow{
		Year:                   i,
		Age:                    p.startAge + i,
		Income:                 gross,
		EarnedIncome:           earned,
		Financing:              s.financing,
		Categories:             categories,
		AssetBuckets:           make(map[domain.AssetBucket]decimal.Decimal, len(domain.AssetBuckets)),
		LiabilityBuckets:       make(map[domain.LiabilityBucket]decimal.Decimal, len(domain.LiabilityBuckets)),
		Taxes:                  taxes,
		RetirementContribution: contribution,
		CapitalOutlay:          s.outlay,
		InterestPaid:           interestPaid,
		PrincipalPaid:          principalPaid,
		NetCashFlow:            net,
		SavingsDraw:            draw,
		NewPersonalDebt:        borrowed,
	}
	for _, a := range s.assets {
		b := domain.BucketForAsset(a.Type)
		row.AssetBuckets[b] = row.AssetBuckets[b].Add(a.value)
	}
	for _, l := range s.liabilities {
		b := domain.BucketForLiability(l.Type)
		row.LiabilityBuckets[b] = row.LiabilityBuckets[b].Add(money.FloorZero(l.balance))
	}
	return row
}
