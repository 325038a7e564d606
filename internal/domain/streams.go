package domain

import (
	"github.com/shopspring/decimal"
)

// AssetType classifies an owned resource
type AssetType string

const (
	AssetSavings    AssetType = "savings"
	AssetInvestment AssetType = "investment"
	AssetRetirement AssetType = "retirement"
	AssetHome       AssetType = "home"
	AssetVehicle    AssetType = "vehicle"
	AssetOther      AssetType = "other"
)

// Asset represents an owned resource whose value compounds at GrowthRate per year.
// Vehicles typically carry a negative (depreciation) rate.
type Asset struct {
	Type         AssetType       `yaml:"type" json:"type"`
	Name         string          `yaml:"name" json:"name"`
	InitialValue decimal.Decimal `yaml:"initial_value" json:"initial_value"`
	GrowthRate   decimal.Decimal `yaml:"growth_rate" json:"growth_rate"`
}

// LiabilityType classifies an amortizing debt
type LiabilityType string

const (
	LiabilityMortgage      LiabilityType = "mortgage"
	LiabilityCarLoan       LiabilityType = "car_loan"
	LiabilityStudentLoan   LiabilityType = "student_loan"
	LiabilityEducationLoan LiabilityType = "education_loan"
	LiabilityGraduateLoan  LiabilityType = "graduate_loan"
	LiabilityPersonalLoan  LiabilityType = "personal_loan"
	LiabilityCreditCard    LiabilityType = "credit_card"
	LiabilityOther         LiabilityType = "other"
)

// Liability represents an amortizing debt with a fixed-payment schedule.
// The repayment term starts once DefermentYears have elapsed.
type Liability struct {
	Type           LiabilityType   `yaml:"type" json:"type"`
	Name           string          `yaml:"name" json:"name"`
	InitialBalance decimal.Decimal `yaml:"initial_balance" json:"initial_balance"`
	InterestRate   decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	TermYears      int             `yaml:"term_years" json:"term_years"`
	DefermentYears int             `yaml:"deferment_years,omitempty" json:"deferment_years,omitempty"`
	Subsidized     bool            `yaml:"subsidized,omitempty" json:"subsidized,omitempty"`
}

// IncomeType classifies an income stream
type IncomeType string

const (
	IncomeSalary       IncomeType = "salary"
	IncomeWage         IncomeType = "wage"
	IncomeSpouseSalary IncomeType = "spouse_salary"
	IncomePartTime     IncomeType = "part_time"
	IncomeMilitary     IncomeType = "military"
	IncomeAllowance    IncomeType = "allowance"
	IncomeBonus        IncomeType = "bonus"
	IncomeOther        IncomeType = "other"
)

// IsPrimary reports whether the type is the subject's primary earned income, the
// stream paused by school or service and replaced by a job change
func (t IncomeType) IsPrimary() bool {
	return t == IncomeSalary || t == IncomeWage
}

// IsEarned reports whether the type counts as wages for payroll tax and retirement contributions
func (t IncomeType) IsEarned() bool {
	switch t {
	case IncomeSalary, IncomeWage, IncomeSpouseSalary, IncomePartTime, IncomeMilitary, IncomeBonus:
		return true
	}
	return false
}

// IsLocationAdjusted reports whether the cost-of-living income factor applies to the type
func (t IncomeType) IsLocationAdjusted() bool {
	switch t {
	case IncomeSalary, IncomeWage, IncomeSpouseSalary, IncomePartTime:
		return true
	}
	return false
}

// Income represents an annually compounding income stream, inactive outside [StartYear, EndYear].
type Income struct {
	Type         IncomeType       `yaml:"type" json:"type"`
	Name         string           `yaml:"name" json:"name"`
	AnnualAmount decimal.Decimal  `yaml:"annual_amount" json:"annual_amount"`
	GrowthRate   decimal.Decimal  `yaml:"growth_rate" json:"growth_rate"`
	StartYear    *int             `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear      *int             `yaml:"end_year,omitempty" json:"end_year,omitempty"`
	BonusPercent *decimal.Decimal `yaml:"bonus_percent,omitempty" json:"bonus_percent,omitempty"` // 10 = +10%
	NonTaxable   bool             `yaml:"non_taxable,omitempty" json:"non_taxable,omitempty"`
}

// Taxable reports whether the stream enters federal and state taxable income
func (i Income) Taxable() bool {
	return !i.NonTaxable && i.Type != IncomeAllowance
}

// ExpenseCategory names an output expense category
type ExpenseCategory string

const (
	CategoryHousing           ExpenseCategory = "housing"
	CategoryTransportation    ExpenseCategory = "transportation"
	CategoryFood              ExpenseCategory = "food"
	CategoryHealthcare        ExpenseCategory = "healthcare"
	CategoryPersonalInsurance ExpenseCategory = "personal_insurance"
	CategoryApparel           ExpenseCategory = "apparel"
	CategoryServices          ExpenseCategory = "services"
	CategoryEntertainment     ExpenseCategory = "entertainment"
	CategoryOther             ExpenseCategory = "other"
	CategoryEducation         ExpenseCategory = "education"
	CategoryChildcare         ExpenseCategory = "childcare"
	CategoryDebt              ExpenseCategory = "debt"
	CategoryDiscretionary     ExpenseCategory = "discretionary"
)

// ExpenseCategories lists every category in output order
var ExpenseCategories = []ExpenseCategory{
	CategoryHousing,
	CategoryTransportation,
	CategoryFood,
	CategoryHealthcare,
	CategoryPersonalInsurance,
	CategoryApparel,
	CategoryServices,
	CategoryEntertainment,
	CategoryOther,
	CategoryEducation,
	CategoryChildcare,
	CategoryDebt,
	CategoryDiscretionary,
}

// LivingCategories are the day-to-day categories that scale with location and household size
var LivingCategories = []ExpenseCategory{
	CategoryHousing,
	CategoryTransportation,
	CategoryFood,
	CategoryHealthcare,
	CategoryPersonalInsurance,
	CategoryApparel,
	CategoryServices,
	CategoryEntertainment,
	CategoryOther,
}

// IsLiving reports whether c is a living category
func (c ExpenseCategory) IsLiving() bool {
	for _, l := range LivingCategories {
		if l == c {
			return true
		}
	}
	return false
}

// Valid reports whether c is a known category
func (c ExpenseCategory) Valid() bool {
	for _, k := range ExpenseCategories {
		if k == c {
			return true
		}
	}
	return false
}

// Expenditure represents an annually inflating expense stream. Type is its category.
type Expenditure struct {
	Type             ExpenseCategory  `yaml:"type" json:"type"`
	Name             string           `yaml:"name" json:"name"`
	AnnualAmount     decimal.Decimal  `yaml:"annual_amount" json:"annual_amount"`
	InflationRate    decimal.Decimal  `yaml:"inflation_rate" json:"inflation_rate"`
	LifestyleFactor  *decimal.Decimal `yaml:"lifestyle_factor,omitempty" json:"lifestyle_factor,omitempty"`
	TaxRate          *decimal.Decimal `yaml:"tax_rate,omitempty" json:"tax_rate,omitempty"`
	StartYear        *int             `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	EndYear          *int             `yaml:"end_year,omitempty" json:"end_year,omitempty"`
	LocationAdjusted *bool            `yaml:"location_adjusted,omitempty" json:"location_adjusted,omitempty"`
}

// IsLocationAdjusted resolves the tri-state flag: unset means living categories only.
func (e Expenditure) IsLocationAdjusted() bool {
	if e.LocationAdjusted != nil {
		return *e.LocationAdjusted
	}
	return e.Type.IsLiving()
}
