package calculation

import (
	"strings"

	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Policy is the rate tables merged with a bundle's overrides for one run
type Policy struct {
	FederalBracketsSingle    []domain.TaxBracket
	FederalBracketsMarried   []domain.TaxBracket
	StandardDeductionSingle  decimal.Decimal
	StandardDeductionMarried decimal.Decimal
	Payroll                  domain.PayrollRules
	StateCode                string
	StateTax                 StateTax

	EmergencyFund            decimal.Decimal
	PersonalLoanTermYears    int
	PersonalLoanInterestRate decimal.Decimal
	RetirementRate           decimal.Decimal
	RetirementGrowthRate     decimal.Decimal
	SavingsGrowthRate        decimal.Decimal

	Tables RateTables
}

// ResolvePolicy merges bundle overrides onto the tables. The state schedule is
// chosen from explicit brackets, then the policy or location state code, then the
// flat default rate.
func ResolvePolicy(b *domain.Bundle, tables RateTables, loc domain.ResolvedLocation) Policy {
	p := Policy{
		FederalBracketsSingle:    SortBrackets(tables.FederalBracketsSingle),
		FederalBracketsMarried:   SortBrackets(tables.FederalBracketsMarried),
		StandardDeductionSingle:  tables.StandardDeductionSingle,
		StandardDeductionMarried: tables.StandardDeductionMarried,
		Payroll:                  tables.Payroll,
		EmergencyFund:            b.EmergencyFundAmount,
		PersonalLoanTermYears:    tables.PersonalLoanTermYears,
		PersonalLoanInterestRate: money.Or(b.PersonalLoanInterestRate, tables.PersonalLoanInterestRate),
		RetirementRate:           b.RetirementContributionRate,
		RetirementGrowthRate:     money.Or(b.RetirementGrowthRate, tables.RetirementGrowthRate),
		SavingsGrowthRate:        tables.SavingsGrowthRate,
		Tables:                   tables,
	}
	if b.PersonalLoanTermYears != nil {
		p.PersonalLoanTermYears = *b.PersonalLoanTermYears
	}

	defaultStateRate := tables.DefaultStateRate
	stateCode := loc.State

	if tp := b.TaxPolicy; tp != nil {
		if len(tp.FederalBracketsSingle) > 0 {
			p.FederalBracketsSingle = SortBrackets(tp.FederalBracketsSingle)
		}
		if len(tp.FederalBracketsMarried) > 0 {
			p.FederalBracketsMarried = SortBrackets(tp.FederalBracketsMarried)
		}
		p.StandardDeductionSingle = money.Or(tp.StandardDeductionSingle, p.StandardDeductionSingle)
		p.StandardDeductionMarried = money.Or(tp.StandardDeductionMarried, p.StandardDeductionMarried)
		if tp.Payroll != nil {
			p.Payroll = *tp.Payroll
		}
		defaultStateRate = money.Or(tp.DefaultStateRate, defaultStateRate)
		if tp.State != "" {
			stateCode = tp.State
		}
		if len(tp.StateBrackets) > 0 {
			p.StateCode = strings.ToUpper(stateCode)
			p.StateTax = StateTax{Kind: StateTaxProgressive, Brackets: SortBrackets(tp.StateBrackets)}
			return p
		}
	}

	if st, ok := tables.StateTax(stateCode); ok {
		p.StateCode = strings.ToUpper(strings.TrimSpace(stateCode))
		p.StateTax = StateTax{Kind: st.Kind, Brackets: SortBrackets(st.Brackets)}
		return p
	}
	p.StateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	p.StateTax = StateTax{Kind: StateTaxFlat, Brackets: []domain.TaxBracket{{Threshold: decimal.Zero, Rate: defaultStateRate}}}
	return p
}
