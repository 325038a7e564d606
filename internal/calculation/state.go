package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

type assetState struct {
	domain.Asset
	value decimal.Decimal
}

type liabilityState struct {
	domain.Liability
	balance decimal.Decimal
	elapsed int
}

// remaining is the number of repayment years left; the term starts after deferment
func (l *liabilityState) remaining() int {
	return l.TermYears - max(0, l.elapsed-l.DefermentYears)
}

func (l *liabilityState) deferred() bool {
	return l.elapsed < l.DefermentYears
}

type yearSpan struct {
	from, to int
}

type incomeState struct {
	domain.Income
	start, end int
	pauses     []yearSpan
}

func (s *incomeState) active(year int) bool {
	if year < s.start || year > s.end {
		return false
	}
	for _, p := range s.pauses {
		if year >= p.from && year <= p.to {
			return false
		}
	}
	return true
}

// amount is the stream's value in year: compounded since activation, plus bonus,
// times the location factor for location-adjusted types
func (s *incomeState) amount(year int, loc domain.ResolvedLocation) decimal.Decimal {
	v := money.Compound(s.AnnualAmount, s.GrowthRate, year-s.start)
	if s.BonusPercent != nil {
		v = v.Mul(money.One.Add(money.Percent(*s.BonusPercent)))
	}
	if s.Type.IsLocationAdjusted() {
		v = v.Mul(loc.IncomeAdjustmentFactor)
	}
	return v
}

type expenseState struct {
	domain.Expenditure
	start, end int
	scale      decimal.Decimal
	fixed      bool
}

func (s *expenseState) active(year int) bool {
	return year >= s.start && year <= s.end
}

func (s *expenseState) amount(year int, loc domain.ResolvedLocation) decimal.Decimal {
	v := money.Compound(s.AnnualAmount, s.InflationRate, year-s.start).Mul(s.scale)
	if s.LifestyleFactor != nil {
		v = v.Mul(*s.LifestyleFactor)
	}
	if s.TaxRate != nil {
		v = v.Mul(money.One.Add(*s.TaxRate))
	}
	if s.IsLocationAdjusted() {
		v = v.Mul(loc.ExpenseFactor)
	}
	return money.FloorZero(v)
}

type oneTimeCost struct {
	category domain.ExpenseCategory
	amount   decimal.Decimal
}

// runState is the mutable state of a single run. Nothing in it outlives the run.
type runState struct {
	policy Policy
	loc    domain.ResolvedLocation
	rec    *recorder

	assets      []*assetState
	liabilities []*liabilityState
	incomes     []*incomeState
	expenses    []*expenseState
	filing      domain.FilingStatus

	savings      *assetState
	retirement   *assetState
	personalLoan *liabilityState

	// reset each year
	oneTime   []oneTimeCost
	outlay    decimal.Decimal
	financing decimal.Decimal
}

func newRunState(b *domain.Bundle, p Policy, loc domain.ResolvedLocation, rec *recorder) *runState {
	s := &runState{policy: p, loc: loc, rec: rec, filing: b.FilingStatus}
	if s.filing == "" {
		s.filing = domain.FilingSingle
	}

	for _, a := range b.Assets {
		s.addAsset(a, nil)
	}
	for _, l := range b.Liabilities {
		s.addLiability(l, nil)
	}
	for _, inc := range b.Incomes {
		s.addIncome(inc, 0, nil)
	}

	supplied := make(map[domain.ExpenseCategory]bool)
	for _, e := range b.Expenditures {
		if s.addExpense(e, 0, false, nil) {
			supplied[e.Type] = true
		}
	}
	if b.IncludeBaselineExpenses {
		off := false
		for _, c := range domain.LivingCategories {
			if supplied[c] {
				continue
			}
			s.addExpense(domain.Expenditure{
				Type:             c,
				Name:             fmt.Sprintf("baseline %s", c),
				AnnualAmount:     loc.AnnualBaselines[c],
				InflationRate:    p.Tables.InflationFor(c),
				LocationAdjusted: &off,
			}, 0, false, nil)
		}
	}
	return s
}

func (s *runState) beginYear() {
	s.oneTime = s.oneTime[:0]
	s.outlay = decimal.Zero
	s.financing = decimal.Zero
}

func (s *runState) addAsset(a domain.Asset, year *int) {
	if a.InitialValue.IsNegative() {
		s.rec.warn("asset "+a.Name, year, "skipped: initial_value cannot be negative")
		return
	}
	st := &assetState{Asset: a, value: a.InitialValue}
	s.assets = append(s.assets, st)
	if a.Type == domain.AssetSavings && s.savings == nil {
		s.savings = st
	}
	if a.Type == domain.AssetRetirement && s.retirement == nil {
		s.retirement = st
	}
}

func validateLiability(l domain.Liability) error {
	switch {
	case l.InitialBalance.IsNegative():
		return fmt.Errorf("initial_balance cannot be negative")
	case l.TermYears <= 0:
		return fmt.Errorf("term_years must be positive, got %d", l.TermYears)
	case l.DefermentYears < 0:
		return fmt.Errorf("deferment_years cannot be negative")
	case l.InterestRate.IsNegative() && l.DefermentYears > 0:
		return fmt.Errorf("a deferred liability cannot have a negative interest rate")
	}
	return nil
}

func (s *runState) addLiability(l domain.Liability, year *int) bool {
	if err := validateLiability(l); err != nil {
		s.rec.warn("liability "+l.Name, year, "skipped: %v", err)
		return false
	}
	s.liabilities = append(s.liabilities, &liabilityState{Liability: l, balance: l.InitialBalance})
	return true
}

func endOr(p *int) int {
	if p != nil {
		return *p
	}
	return math.MaxInt
}

func startOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func (s *runState) addIncome(inc domain.Income, defStart int, year *int) {
	start, end := startOr(inc.StartYear, defStart), endOr(inc.EndYear)
	switch {
	case inc.AnnualAmount.IsNegative():
		s.rec.warn("income "+inc.Name, year, "skipped: annual_amount cannot be negative")
		return
	case start < 0 || end < start:
		s.rec.warn("income "+inc.Name, year, "skipped: invalid active years %d..%d", start, end)
		return
	}
	s.incomes = append(s.incomes, &incomeState{Income: inc, start: start, end: end})
}

func (s *runState) addExpense(e domain.Expenditure, defStart int, fixed bool, year *int) bool {
	start, end := startOr(e.StartYear, defStart), endOr(e.EndYear)
	switch {
	case !e.Type.Valid():
		s.rec.warn("expenditure "+e.Name, year, "skipped: unknown category %q", e.Type)
		return false
	case e.AnnualAmount.IsNegative():
		s.rec.warn("expenditure "+e.Name, year, "skipped: annual_amount cannot be negative")
		return false
	case start < 0 || end < start:
		s.rec.warn("expenditure "+e.Name, year, "skipped: invalid active years %d..%d", start, end)
		return false
	}
	s.expenses = append(s.expenses, &expenseState{Expenditure: e, start: start, end: end, scale: money.One, fixed: fixed})
	return true
}

// apply mutates the state with one scheduled effect at the start of year
func (s *runState) apply(se ScheduledEffect, year int) {
	y := yearPtr(year)
	switch e := se.Effect.(type) {
	case AssetDelta:
		s.addAsset(e.Asset, y)
	case LiabilityDelta:
		if s.addLiability(e.Liability, y) && e.Proceeds.IsPositive() {
			s.financing = s.financing.Add(e.Proceeds)
		}
	case ExpenditureDelta:
		s.applyExpenditure(e, year)
	case IncomeDelta:
		s.applyIncome(e, year)
	case CashOutlay:
		s.outlay = s.outlay.Add(money.FloorZero(e.Amount))
	case StatusChange:
		s.filing = e.FilingStatus
	default:
		s.rec.warn("milestone "+se.Source.Label, y, "unsupported effect %T ignored", se.Effect)
	}
}

func (s *runState) applyExpenditure(e ExpenditureDelta, year int) {
	switch e.Op {
	case ExpenditureAdd:
		s.addExpense(e.Stream, year, e.Fixed, yearPtr(year))
	case ExpenditureOneTime:
		if e.Stream.AnnualAmount.IsPositive() {
			s.oneTime = append(s.oneTime, oneTimeCost{category: e.Stream.Type, amount: e.Stream.AnnualAmount})
		}
	case ExpenditureScale:
		factor := money.FloorZero(e.Factor)
		for _, st := range s.expenses {
			if st.fixed || st.end < year || !containsCategory(e.Categories, st.Type) {
				continue
			}
			st.scale = st.scale.Mul(factor)
		}
	}
}

func containsCategory(list []domain.ExpenseCategory, c domain.ExpenseCategory) bool {
	for _, l := range list {
		if l == c {
			return true
		}
	}
	return false
}

func (s *runState) applyIncome(e IncomeDelta, year int) {
	switch e.Op {
	case IncomeAdd:
		s.addIncome(e.Stream, year, yearPtr(year))
	case IncomeEndPrimary:
		for _, st := range s.incomes {
			if st.Type.IsPrimary() && st.end >= year {
				st.end = year - 1
			}
		}
	case IncomePausePrimary:
		if e.Years <= 0 {
			return
		}
		pause := yearSpan{from: year, to: year + e.Years - 1}
		for _, st := range s.incomes {
			if st.Type.IsPrimary() && st.end >= year {
				st.pauses = append(st.pauses, pause)
			}
		}
	}
}

func (s *runState) savingsAsset() *assetState {
	if s.savings == nil {
		s.savings = &assetState{Asset: domain.Asset{Type: domain.AssetSavings, Name: "Savings", GrowthRate: s.policy.SavingsGrowthRate}}
		s.assets = append(s.assets, s.savings)
	}
	return s.savings
}

func (s *runState) retirementAsset() *assetState {
	if s.retirement == nil {
		s.retirement = &assetState{Asset: domain.Asset{Type: domain.AssetRetirement, Name: "Retirement savings", GrowthRate: s.policy.RetirementGrowthRate}}
		s.assets = append(s.assets, s.retirement)
	}
	return s.retirement
}

// borrow covers a shortfall with the auto personal loan, creating it on first use.
// Extending it restarts the repayment term on the combined balance.
func (s *runState) borrow(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	if s.personalLoan == nil {
		s.personalLoan = &liabilityState{Liability: domain.Liability{
			Type:         domain.LiabilityPersonalLoan,
			Name:         "Auto personal loan",
			InterestRate: s.policy.PersonalLoanInterestRate,
		}}
		s.liabilities = append(s.liabilities, s.personalLoan)
	}
	pl := s.personalLoan
	pl.balance = pl.balance.Add(amount)
	pl.InitialBalance = pl.balance
	pl.TermYears = s.policy.PersonalLoanTermYears
	pl.DefermentYears = 0
	pl.elapsed = 0
}
