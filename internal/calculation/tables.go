package calculation

import (
	"strings"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// RATE TABLE ASSUMPTIONS:
//
// 1. Federal brackets and standard deductions are the 2025 schedules, applied
//    unindexed to every projection year.
// 2. Payroll: 6.2% Social Security up to the 2025 wage base ($176,100),
//    1.45% Medicare uncapped, 0.9% additional Medicare above $200,000.
// 3. State tax is looked up by two-letter code. Unknown states and runs with no
//    location fall back to DefaultStateRate as a flat rate.
// 4. Category inflation and baseline monthly expenses are national averages.

// StateTaxKind describes the shape of a state's income tax
type StateTaxKind string

const (
	StateTaxNone        StateTaxKind = "none"
	StateTaxFlat        StateTaxKind = "flat"
	StateTaxProgressive StateTaxKind = "progressive"
)

// StateTax is one jurisdiction's schedule. Flat taxes carry a single bracket at zero.
type StateTax struct {
	Kind     StateTaxKind
	Brackets []domain.TaxBracket
}

// HomeDefaults are applied to a home purchase for fields left unset
type HomeDefaults struct {
	DownPaymentPercent decimal.Decimal
	MortgageRate       decimal.Decimal
	TermYears          int
	AppreciationRate   decimal.Decimal
	PropertyTaxRate    decimal.Decimal
	InsuranceRate      decimal.Decimal
	MaintenanceRate    decimal.Decimal
	RentReduction      decimal.Decimal
}

// CarDefaults are applied to a car purchase for fields left unset
type CarDefaults struct {
	DownPaymentPercent decimal.Decimal
	LoanRate           decimal.Decimal
	TermYears          int
	DepreciationRate   decimal.Decimal
}

// MarriageDefaults are applied to a marriage for fields left unset
type MarriageDefaults struct {
	LivingCostMultiplier decimal.Decimal
	SpouseIncomeGrowth   decimal.Decimal
}

// ChildDefaults are applied to a child milestone for fields left unset.
// CostSplit divides the per-child annual cost across living categories and sums to 1.
type ChildDefaults struct {
	AnnualCost     decimal.Decimal
	ChildcareCost  decimal.Decimal
	ChildcareYears int
	DependentYears int
	CostSplit      map[domain.ExpenseCategory]decimal.Decimal
}

// EducationDefaults are applied to an education milestone for fields left unset
type EducationDefaults struct {
	TuitionInflation decimal.Decimal
	LoanRate         decimal.Decimal
	GraduateLoanRate decimal.Decimal
	LoanTermYears    int
	SalaryPercentile int
	SalaryGrowth     decimal.Decimal
}

// MilitaryDefaults are applied to a military milestone for fields left unset
type MilitaryDefaults struct {
	PayGrowth decimal.Decimal
}

// MilestoneDefaults groups the per-variant defaults
type MilestoneDefaults struct {
	Home      HomeDefaults
	Car       CarDefaults
	Marriage  MarriageDefaults
	Child     ChildDefaults
	Education EducationDefaults
	Military  MilitaryDefaults
}

// RateTables holds every static table the engine consults. The tables are
// read-only during a run; DefaultRateTables builds a fresh copy per call.
type RateTables struct {
	FederalBracketsSingle    []domain.TaxBracket
	FederalBracketsMarried   []domain.TaxBracket
	StandardDeductionSingle  decimal.Decimal
	StandardDeductionMarried decimal.Decimal
	Payroll                  domain.PayrollRules
	States                   map[string]StateTax
	DefaultStateRate         decimal.Decimal

	CategoryInflation map[domain.ExpenseCategory]decimal.Decimal
	BaselineMonthly   map[domain.ExpenseCategory]decimal.Decimal

	PersonalLoanTermYears    int
	PersonalLoanInterestRate decimal.Decimal
	RetirementGrowthRate     decimal.Decimal
	SavingsGrowthRate        decimal.Decimal

	Milestones MilestoneDefaults
}

// StateTax returns the schedule for a state code, case-insensitively
func (t RateTables) StateTax(code string) (StateTax, bool) {
	st, ok := t.States[strings.ToUpper(strings.TrimSpace(code))]
	return st, ok
}

// InflationFor returns the default inflation rate for a category
func (t RateTables) InflationFor(c domain.ExpenseCategory) decimal.Decimal {
	if r, ok := t.CategoryInflation[c]; ok {
		return r
	}
	return decimal.NewFromFloat(0.025)
}

func num(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func brackets(pairs ...float64) []domain.TaxBracket {
	out := make([]domain.TaxBracket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.TaxBracket{Threshold: num(pairs[i]), Rate: num(pairs[i+1])})
	}
	return out
}

func flat(rate float64) StateTax {
	return StateTax{Kind: StateTaxFlat, Brackets: brackets(0, rate)}
}

func progressive(pairs ...float64) StateTax {
	return StateTax{Kind: StateTaxProgressive, Brackets: brackets(pairs...)}
}

var noIncomeTax = StateTax{Kind: StateTaxNone}

// DefaultRateTables returns the built-in 2025 tables
func DefaultRateTables() RateTables {
	return RateTables{
		FederalBracketsSingle: brackets(
			0, 0.10,
			11925, 0.12,
			48475, 0.22,
			103350, 0.24,
			197300, 0.32,
			250525, 0.35,
			626350, 0.37,
		),
		FederalBracketsMarried: brackets(
			0, 0.10,
			23850, 0.12,
			96950, 0.22,
			206700, 0.24,
			394600, 0.32,
			501050, 0.35,
			751600, 0.37,
		),
		StandardDeductionSingle:  decimal.NewFromInt(15000),
		StandardDeductionMarried: decimal.NewFromInt(30000),
		Payroll: domain.PayrollRules{
			SocialSecurityRate:          num(0.062),
			SocialSecurityWageBase:      decimal.NewFromInt(176100),
			MedicareRate:                num(0.0145),
			AdditionalMedicareRate:      num(0.009),
			AdditionalMedicareThreshold: decimal.NewFromInt(200000),
		},
		States: map[string]StateTax{
			"CA": progressive(0, 0.01, 10756, 0.02, 25499, 0.04, 40245, 0.06, 55866, 0.08, 70606, 0.093, 360659, 0.103, 432787, 0.113, 721314, 0.123),
			"NY": progressive(0, 0.04, 8500, 0.045, 11700, 0.0525, 13900, 0.055, 80650, 0.06, 215400, 0.0685, 1077550, 0.0965, 5000000, 0.103, 25000000, 0.109),
			"NJ": progressive(0, 0.014, 20000, 0.0175, 35000, 0.035, 40000, 0.05525, 75000, 0.0637, 500000, 0.0897, 1000000, 0.1075),
			"OR": progressive(0, 0.0475, 4400, 0.0675, 11050, 0.0875, 125000, 0.099),
			"PA": flat(0.0307),
			"IL": flat(0.0495),
			"MA": flat(0.05),
			"CO": flat(0.044),
			"NC": flat(0.045),
			"MI": flat(0.0425),
			"IN": flat(0.0305),
			"UT": flat(0.0455),
			"AZ": flat(0.025),
			"GA": flat(0.0539),
			"TX": noIncomeTax,
			"FL": noIncomeTax,
			"WA": noIncomeTax,
			"NV": noIncomeTax,
			"TN": noIncomeTax,
			"SD": noIncomeTax,
			"WY": noIncomeTax,
			"AK": noIncomeTax,
			"NH": noIncomeTax,
		},
		DefaultStateRate: num(0.05),
		CategoryInflation: map[domain.ExpenseCategory]decimal.Decimal{
			domain.CategoryHousing:           num(0.03),
			domain.CategoryTransportation:    num(0.025),
			domain.CategoryFood:              num(0.025),
			domain.CategoryHealthcare:        num(0.05),
			domain.CategoryPersonalInsurance: num(0.03),
			domain.CategoryApparel:           num(0.015),
			domain.CategoryServices:          num(0.025),
			domain.CategoryEntertainment:     num(0.025),
			domain.CategoryOther:             num(0.025),
			domain.CategoryEducation:         num(0.05),
			domain.CategoryChildcare:         num(0.04),
			domain.CategoryDebt:              decimal.Zero,
			domain.CategoryDiscretionary:     num(0.025),
		},
		BaselineMonthly: map[domain.ExpenseCategory]decimal.Decimal{
			domain.CategoryHousing:           decimal.NewFromInt(1800),
			domain.CategoryTransportation:    decimal.NewFromInt(600),
			domain.CategoryFood:              decimal.NewFromInt(500),
			domain.CategoryHealthcare:        decimal.NewFromInt(300),
			domain.CategoryPersonalInsurance: decimal.NewFromInt(100),
			domain.CategoryApparel:           decimal.NewFromInt(100),
			domain.CategoryServices:          decimal.NewFromInt(150),
			domain.CategoryEntertainment:     decimal.NewFromInt(200),
			domain.CategoryOther:             decimal.NewFromInt(150),
		},
		PersonalLoanTermYears:    5,
		PersonalLoanInterestRate: num(0.10),
		RetirementGrowthRate:     num(0.06),
		SavingsGrowthRate:        decimal.Zero,
		Milestones: MilestoneDefaults{
			Home: HomeDefaults{
				DownPaymentPercent: num(0.20),
				MortgageRate:       num(0.065),
				TermYears:          30,
				AppreciationRate:   num(0.03),
				PropertyTaxRate:    num(0.011),
				InsuranceRate:      num(0.0035),
				MaintenanceRate:    num(0.01),
				RentReduction:      decimal.NewFromInt(1),
			},
			Car: CarDefaults{
				DownPaymentPercent: num(0.10),
				LoanRate:           num(0.07),
				TermYears:          5,
				DepreciationRate:   num(-0.15),
			},
			Marriage: MarriageDefaults{
				LivingCostMultiplier: num(1.5),
				SpouseIncomeGrowth:   num(0.03),
			},
			Child: ChildDefaults{
				AnnualCost:     decimal.NewFromInt(12000),
				ChildcareCost:  decimal.NewFromInt(12000),
				ChildcareYears: 5,
				DependentYears: 18,
				CostSplit: map[domain.ExpenseCategory]decimal.Decimal{
					domain.CategoryFood:       num(0.40),
					domain.CategoryApparel:    num(0.15),
					domain.CategoryHealthcare: num(0.25),
					domain.CategoryOther:      num(0.20),
				},
			},
			Education: EducationDefaults{
				TuitionInflation: num(0.05),
				LoanRate:         num(0.055),
				GraduateLoanRate: num(0.07),
				LoanTermYears:    10,
				SalaryPercentile: 50,
				SalaryGrowth:     num(0.03),
			},
			Military: MilitaryDefaults{
				PayGrowth: num(0.03),
			},
		},
	}
}
