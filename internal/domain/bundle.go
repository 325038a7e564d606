package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidBundle marks a top-level input problem that prevents a run from starting
var ErrInvalidBundle = errors.New("invalid input bundle")

// MaxProjectionYears bounds the horizon so every run terminates quickly
const MaxProjectionYears = 100

// FilingStatus selects the federal bracket schedule
type FilingStatus string

const (
	FilingSingle  FilingStatus = "single"
	FilingMarried FilingStatus = "married"
)

// TaxBracket is one band of a progressive schedule: Rate applies to income above Threshold
// up to the next bracket's threshold.
type TaxBracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// PayrollRules configures payroll (social security + medicare) tax
type PayrollRules struct {
	SocialSecurityRate          decimal.Decimal `yaml:"social_security_rate" json:"social_security_rate"`
	SocialSecurityWageBase      decimal.Decimal `yaml:"social_security_wage_base" json:"social_security_wage_base"`
	MedicareRate                decimal.Decimal `yaml:"medicare_rate" json:"medicare_rate"`
	AdditionalMedicareRate      decimal.Decimal `yaml:"additional_medicare_rate" json:"additional_medicare_rate"`
	AdditionalMedicareThreshold decimal.Decimal `yaml:"additional_medicare_threshold" json:"additional_medicare_threshold"`
}

// TaxPolicy overrides the built-in tax tables. Unset fields keep the defaults.
type TaxPolicy struct {
	FederalBracketsSingle    []TaxBracket     `yaml:"federal_brackets_single,omitempty" json:"federal_brackets_single,omitempty"`
	FederalBracketsMarried   []TaxBracket     `yaml:"federal_brackets_married,omitempty" json:"federal_brackets_married,omitempty"`
	StandardDeductionSingle  *decimal.Decimal `yaml:"standard_deduction_single,omitempty" json:"standard_deduction_single,omitempty"`
	StandardDeductionMarried *decimal.Decimal `yaml:"standard_deduction_married,omitempty" json:"standard_deduction_married,omitempty"`
	Payroll                  *PayrollRules    `yaml:"payroll,omitempty" json:"payroll,omitempty"`
	State                    string           `yaml:"state,omitempty" json:"state,omitempty"`
	StateBrackets            []TaxBracket     `yaml:"state_brackets,omitempty" json:"state_brackets,omitempty"`
	DefaultStateRate         *decimal.Decimal `yaml:"default_state_rate,omitempty" json:"default_state_rate,omitempty"`
}

// Bundle is the complete input of one projection run
type Bundle struct {
	Name                       string           `yaml:"name,omitempty" json:"name,omitempty"`
	StartAge                   int              `yaml:"start_age" json:"start_age"`
	YearsToProject             *int             `yaml:"years_to_project" json:"years_to_project"`
	CostOfLivingFactor         *decimal.Decimal `yaml:"cost_of_living_factor,omitempty" json:"cost_of_living_factor,omitempty"`
	PostalCode                 string           `yaml:"postal_code,omitempty" json:"postal_code,omitempty"`
	LocationData               *LocationRecord  `yaml:"location_data,omitempty" json:"location_data,omitempty"`
	IncludeBaselineExpenses    bool             `yaml:"include_baseline_expenses,omitempty" json:"include_baseline_expenses,omitempty"`
	FilingStatus               FilingStatus     `yaml:"filing_status,omitempty" json:"filing_status,omitempty"`
	EmergencyFundAmount        decimal.Decimal  `yaml:"emergency_fund_amount" json:"emergency_fund_amount"`
	PersonalLoanTermYears      *int             `yaml:"personal_loan_term_years,omitempty" json:"personal_loan_term_years,omitempty"`
	PersonalLoanInterestRate   *decimal.Decimal `yaml:"personal_loan_interest_rate,omitempty" json:"personal_loan_interest_rate,omitempty"`
	RetirementContributionRate decimal.Decimal  `yaml:"retirement_contribution_rate" json:"retirement_contribution_rate"`
	RetirementGrowthRate       *decimal.Decimal `yaml:"retirement_growth_rate,omitempty" json:"retirement_growth_rate,omitempty"`
	TaxPolicy                  *TaxPolicy       `yaml:"tax_policy,omitempty" json:"tax_policy,omitempty"`
	Assets                     []Asset          `yaml:"assets,omitempty" json:"assets,omitempty"`
	Liabilities                []Liability      `yaml:"liabilities,omitempty" json:"liabilities,omitempty"`
	Incomes                    []Income         `yaml:"incomes,omitempty" json:"incomes,omitempty"`
	Expenditures               []Expenditure    `yaml:"expenditures,omitempty" json:"expenditures,omitempty"`
	Milestones                 []MilestoneSpec  `yaml:"milestones,omitempty" json:"milestones,omitempty"`
}

// Horizon returns the number of simulated years. Call Validate first.
func (b *Bundle) Horizon() int {
	if b.YearsToProject == nil {
		return 0
	}
	return *b.YearsToProject
}

// Validate checks the top-level fields a run cannot start without. Element-level
// problems (a bad liability, an unknown milestone) are not reported here; the
// engine skips those and records diagnostics.
func (b *Bundle) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: bundle is nil", ErrInvalidBundle)
	}
	if b.YearsToProject == nil {
		return fmt.Errorf("%w: years_to_project is required", ErrInvalidBundle)
	}
	if *b.YearsToProject <= 0 || *b.YearsToProject > MaxProjectionYears {
		return fmt.Errorf("%w: years_to_project must be between 1 and %d, got %d", ErrInvalidBundle, MaxProjectionYears, *b.YearsToProject)
	}
	if b.StartAge < 0 || b.StartAge > 130 {
		return fmt.Errorf("%w: start_age must be between 0 and 130, got %d", ErrInvalidBundle, b.StartAge)
	}
	if b.EmergencyFundAmount.IsNegative() {
		return fmt.Errorf("%w: emergency_fund_amount cannot be negative", ErrInvalidBundle)
	}
	if b.PersonalLoanTermYears != nil && *b.PersonalLoanTermYears <= 0 {
		return fmt.Errorf("%w: personal_loan_term_years must be positive", ErrInvalidBundle)
	}
	if b.PersonalLoanInterestRate != nil && b.PersonalLoanInterestRate.IsNegative() {
		return fmt.Errorf("%w: personal_loan_interest_rate cannot be negative", ErrInvalidBundle)
	}
	if b.RetirementContributionRate.IsNegative() || b.RetirementContributionRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: retirement_contribution_rate must be between 0 and 1", ErrInvalidBundle)
	}
	if b.CostOfLivingFactor != nil && !b.CostOfLivingFactor.IsPositive() {
		return fmt.Errorf("%w: cost_of_living_factor must be positive", ErrInvalidBundle)
	}
	if b.FilingStatus != "" && b.FilingStatus != FilingSingle && b.FilingStatus != FilingMarried {
		return fmt.Errorf("%w: filing_status must be 'single' or 'married', got %q", ErrInvalidBundle, b.FilingStatus)
	}
	for i, m := range b.Milestones {
		if m.Milestone == nil {
			return fmt.Errorf("%w: milestone %d is empty", ErrInvalidBundle, i)
		}
	}
	return nil
}

// MilestoneList unwraps the decoded milestone variants in input order
func (b *Bundle) MilestoneList() []Milestone {
	out := make([]Milestone, 0, len(b.Milestones))
	for _, m := range b.Milestones {
		if m.Milestone != nil {
			out = append(out, m.Milestone)
		}
	}
	return out
}

// Years returns a pointer to n, for building bundles in code
func Years(n int) *int {
	return &n
}
