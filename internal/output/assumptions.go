package output

import (
	"fmt"

	"github.com/rpgo/lifepath/internal/calculation"
	"github.com/rpgo/lifepath/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = GenerateAssumptions(calculation.DefaultRateTables())

// GenerateAssumptions creates the assumptions list from the rate tables in use
func GenerateAssumptions(t calculation.RateTables) []string {
	return []string{
		"Values are end-of-year; milestones take effect at the start of their year",
		fmt.Sprintf("Federal brackets and standard deduction (%s single / %s married) held constant", FormatCurrency(t.StandardDeductionSingle), FormatCurrency(t.StandardDeductionMarried)),
		fmt.Sprintf("Payroll tax: %s social security up to %s, %s medicare, +%s above %s",
			FormatRate(t.Payroll.SocialSecurityRate), FormatCurrency(t.Payroll.SocialSecurityWageBase),
			FormatRate(t.Payroll.MedicareRate), FormatRate(t.Payroll.AdditionalMedicareRate), FormatCurrency(t.Payroll.AdditionalMedicareThreshold)),
		fmt.Sprintf("State income tax defaults to a flat %s where the state is unknown", FormatRate(t.DefaultStateRate)),
		fmt.Sprintf("Housing inflation %s, healthcare inflation %s annually",
			FormatRate(t.InflationFor(domain.CategoryHousing)), FormatRate(t.InflationFor(domain.CategoryHealthcare))),
		fmt.Sprintf("Retirement savings grow %s annually", FormatRate(t.RetirementGrowthRate)),
		fmt.Sprintf("Shortfalls beyond the emergency fund are borrowed at %s over %d years", FormatRate(t.PersonalLoanInterestRate), t.PersonalLoanTermYears),
	}
}
