package calculation

import (
	"sort"

	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// BracketResult is the outcome of evaluating a progressive schedule
type BracketResult struct {
	Tax       decimal.Decimal
	Marginal  decimal.Decimal
	Effective decimal.Decimal
}

// SortBrackets returns a copy of the schedule ordered by threshold
func SortBrackets(brackets []domain.TaxBracket) []domain.TaxBracket {
	out := append([]domain.TaxBracket(nil), brackets...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Threshold.LessThan(out[j].Threshold) })
	return out
}

// EvaluateBrackets taxes income through a schedule sorted by threshold. Each rate
// applies to the income between its threshold and the next one; the top rate
// applies to everything above the last threshold. Marginal is the rate of the
// topmost bracket reached.
func EvaluateBrackets(income decimal.Decimal, brackets []domain.TaxBracket) BracketResult {
	if !income.IsPositive() || len(brackets) == 0 {
		return BracketResult{}
	}

	var tax, marginal decimal.Decimal
	for i, b := range brackets {
		if income.LessThanOrEqual(b.Threshold) {
			break
		}
		upper := income
		if i+1 < len(brackets) {
			upper = decimal.Min(income, brackets[i+1].Threshold)
		}
		portion := upper.Sub(b.Threshold)
		if portion.IsPositive() {
			tax = tax.Add(portion.Mul(b.Rate))
		}
		marginal = b.Rate
	}

	return BracketResult{Tax: tax, Marginal: marginal, Effective: money.SafeDiv(tax, income)}
}

// FederalTaxCalculator handles federal income tax calculations
type FederalTaxCalculator struct {
	BracketsSingle           []domain.TaxBracket
	BracketsMarried          []domain.TaxBracket
	StandardDeductionSingle  decimal.Decimal
	StandardDeductionMarried decimal.Decimal
}

// NewFederalTaxCalculator creates a federal calculator from a resolved policy
func NewFederalTaxCalculator(p Policy) *FederalTaxCalculator {
	return &FederalTaxCalculator{
		BracketsSingle:           p.FederalBracketsSingle,
		BracketsMarried:          p.FederalBracketsMarried,
		StandardDeductionSingle:  p.StandardDeductionSingle,
		StandardDeductionMarried: p.StandardDeductionMarried,
	}
}

// Calculate applies the standard deduction for the filing status, then the brackets.
// It returns the tax, the marginal rate and the taxable income after deduction.
func (fc *FederalTaxCalculator) Calculate(income decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	schedule, deduction := fc.BracketsSingle, fc.StandardDeductionSingle
	if status == domain.FilingMarried {
		schedule, deduction = fc.BracketsMarried, fc.StandardDeductionMarried
	}
	taxable := money.FloorZero(income.Sub(deduction))
	res := EvaluateBrackets(taxable, schedule)
	return res.Tax, res.Marginal, taxable
}

// StateTaxCalculator applies the jurisdiction's schedule with no deduction
type StateTaxCalculator struct {
	Code     string
	Schedule StateTax
}

// NewStateTaxCalculator creates a state calculator from a resolved policy
func NewStateTaxCalculator(p Policy) *StateTaxCalculator {
	return &StateTaxCalculator{Code: p.StateCode, Schedule: p.StateTax}
}

// Calculate returns the state tax and marginal rate
func (sc *StateTaxCalculator) Calculate(income decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if sc.Schedule.Kind == StateTaxNone {
		return decimal.Zero, decimal.Zero
	}
	res := EvaluateBrackets(income, sc.Schedule.Brackets)
	return res.Tax, res.Marginal
}

// PayrollTaxCalculator handles Social Security and Medicare on earned income
type PayrollTaxCalculator struct {
	Rules domain.PayrollRules
}

// NewPayrollTaxCalculator creates a payroll calculator from a resolved policy
func NewPayrollTaxCalculator(p Policy) *PayrollTaxCalculator {
	return &PayrollTaxCalculator{Rules: p.Payroll}
}

// Calculate returns payroll tax and its marginal rate for the given wages
func (pc *PayrollTaxCalculator) Calculate(wages decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if !wages.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	r := pc.Rules

	// Social Security (capped)
	ssTax := decimal.Min(wages, r.SocialSecurityWageBase).Mul(r.SocialSecurityRate)

	// Medicare (no cap) plus the surtax above the threshold
	medicareTax := wages.Mul(r.MedicareRate)
	additional := money.FloorZero(wages.Sub(r.AdditionalMedicareThreshold)).Mul(r.AdditionalMedicareRate)

	marginal := r.MedicareRate
	if wages.LessThan(r.SocialSecurityWageBase) {
		marginal = marginal.Add(r.SocialSecurityRate)
	}
	if wages.GreaterThan(r.AdditionalMedicareThreshold) {
		marginal = marginal.Add(r.AdditionalMedicareRate)
	}

	return ssTax.Add(medicareTax).Add(additional), marginal
}

// TaxableIncome splits one year's income the way the calculators need it
type TaxableIncome struct {
	Gross   decimal.Decimal // every active stream, taxable or not
	Taxable decimal.Decimal // streams subject to federal and state tax
	Earned  decimal.Decimal // wages subject to payroll tax
	PreTax  decimal.Decimal // retirement contribution excluded from federal and state
}

// ComprehensiveTaxCalculator handles all tax calculations
type ComprehensiveTaxCalculator struct {
	FederalTaxCalc *FederalTaxCalculator
	StateTaxCalc   *StateTaxCalculator
	PayrollTaxCalc *PayrollTaxCalculator
}

// NewComprehensiveTaxCalculator creates a calculator for a resolved policy
func NewComprehensiveTaxCalculator(p Policy) *ComprehensiveTaxCalculator {
	return &ComprehensiveTaxCalculator{
		FederalTaxCalc: NewFederalTaxCalculator(p),
		StateTaxCalc:   NewStateTaxCalculator(p),
		PayrollTaxCalc: NewPayrollTaxCalculator(p),
	}
}

// CalculateTotalTaxes computes payroll, federal and state tax for one year
func (ctc *ComprehensiveTaxCalculator) CalculateTotalTaxes(in TaxableIncome, status domain.FilingStatus) domain.TaxBreakdown {
	incomeTaxBase := money.FloorZero(in.Taxable.Sub(in.PreTax))

	federal, federalMarginal, taxable := ctc.FederalTaxCalc.Calculate(incomeTaxBase, status)
	state, stateMarginal := ctc.StateTaxCalc.Calculate(incomeTaxBase)
	payroll, payrollMarginal := ctc.PayrollTaxCalc.Calculate(in.Earned)

	total := federal.Add(state).Add(payroll)
	return domain.TaxBreakdown{
		PayrollTax:       payroll,
		FederalTax:       federal,
		StateTax:         state,
		TotalTax:         total,
		TaxableIncome:    taxable,
		EffectiveTaxRate: money.SafeDiv(total, in.Gross),
		MarginalTaxRate:  federalMarginal.Add(stateMarginal).Add(payrollMarginal),
	}
}
