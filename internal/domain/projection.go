package domain

import (
	"github.com/shopspring/decimal"
)

// Severity grades a diagnostic
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic records a recoverable problem found while running a projection
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	Year     *int     `json:"year,omitempty"`
}

// AssetBucket names an asset breakdown series
type AssetBucket string

const (
	BucketSavings     AssetBucket = "savings"
	BucketRetirement  AssetBucket = "retirement"
	BucketInvestments AssetBucket = "investments"
	BucketHomeValue   AssetBucket = "home_value"
	BucketCarValue    AssetBucket = "car_value"
	BucketOtherAssets AssetBucket = "other_assets"
)

// AssetBuckets lists asset buckets in output order
var AssetBuckets = []AssetBucket{BucketSavings, BucketRetirement, BucketInvestments, BucketHomeValue, BucketCarValue, BucketOtherAssets}

// BucketForAsset maps an asset type to its breakdown bucket
func BucketForAsset(t AssetType) AssetBucket {
	switch t {
	case AssetSavings:
		return BucketSavings
	case AssetRetirement:
		return BucketRetirement
	case AssetInvestment:
		return BucketInvestments
	case AssetHome:
		return BucketHomeValue
	case AssetVehicle:
		return BucketCarValue
	}
	return BucketOtherAssets
}

// LiabilityBucket names a liability breakdown series
type LiabilityBucket string

const (
	BucketMortgage            LiabilityBucket = "mortgage"
	BucketCarLoan             LiabilityBucket = "car_loan"
	BucketStudentLoan         LiabilityBucket = "student_loan"
	BucketEducationLoans      LiabilityBucket = "education_loans"
	BucketGraduateSchoolLoans LiabilityBucket = "graduate_school_loans"
	BucketPersonalLoans       LiabilityBucket = "personal_loans"
	BucketOtherLiabilities    LiabilityBucket = "other_liabilities"
)

// NamedLiabilityBuckets are the categories reported individually; anything else is "other"
var NamedLiabilityBuckets = []LiabilityBucket{
	BucketMortgage,
	BucketCarLoan,
	BucketStudentLoan,
	BucketEducationLoans,
	BucketGraduateSchoolLoans,
	BucketPersonalLoans,
}

// LiabilityBuckets lists every liability bucket in output order
var LiabilityBuckets = append(append([]LiabilityBucket{}, NamedLiabilityBuckets...), BucketOtherLiabilities)

// BucketForLiability maps a liability type to its breakdown bucket
func BucketForLiability(t LiabilityType) LiabilityBucket {
	switch t {
	case LiabilityMortgage:
		return BucketMortgage
	case LiabilityCarLoan:
		return BucketCarLoan
	case LiabilityStudentLoan:
		return BucketStudentLoan
	case LiabilityEducationLoan:
		return BucketEducationLoans
	case LiabilityGraduateLoan:
		return BucketGraduateSchoolLoans
	case LiabilityPersonalLoan:
		return BucketPersonalLoans
	}
	return BucketOtherLiabilities
}

// TaxBreakdown holds one year's taxes
type TaxBreakdown struct {
	PayrollTax       decimal.Decimal `json:"payroll_tax"`
	FederalTax       decimal.Decimal `json:"federal_tax"`
	StateTax         decimal.Decimal `json:"state_tax"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	TaxableIncome    decimal.Decimal `json:"taxable_income"`
	EffectiveTaxRate decimal.Decimal `json:"effective_tax_rate"`
	MarginalTaxRate  decimal.Decimal `json:"marginal_tax_rate"`
}

// YearRow is the engine's snapshot of one simulated year before aggregation
type YearRow struct {
	Year                   int
	Age                    int
	Income                 decimal.Decimal
	EarnedIncome           decimal.Decimal
	Financing              decimal.Decimal
	Categories             map[ExpenseCategory]decimal.Decimal
	AssetBuckets           map[AssetBucket]decimal.Decimal
	LiabilityBuckets       map[LiabilityBucket]decimal.Decimal
	Taxes                  TaxBreakdown
	RetirementContribution decimal.Decimal
	CapitalOutlay          decimal.Decimal
	InterestPaid           decimal.Decimal
	PrincipalPaid          decimal.Decimal
	NetCashFlow            decimal.Decimal
	SavingsDraw            decimal.Decimal
	NewPersonalDebt        decimal.Decimal
}

// EducationPath summarises an education milestone
type EducationPath struct {
	Level          EducationLevel   `json:"level"`
	School         string           `json:"school,omitempty"`
	StartYear      int              `json:"start_year"`
	GraduationYear int              `json:"graduation_year"`
	TotalBorrowed  decimal.Decimal  `json:"total_borrowed"`
	WorkStatus     WorkStatus       `json:"work_status,omitempty"`
	Occupation     string           `json:"occupation,omitempty"`
	StartingSalary *decimal.Decimal `json:"starting_salary,omitempty"`
}

// JobPathEntry summarises a change of primary income
type JobPathEntry struct {
	Year       int             `json:"year"`
	Source     string          `json:"source"`
	Occupation string          `json:"occupation,omitempty"`
	Salary     decimal.Decimal `json:"salary"`
}

// MilitaryPath summarises a military service milestone
type MilitaryPath struct {
	Branch    string          `json:"branch,omitempty"`
	StartYear int             `json:"start_year"`
	EndYear   int             `json:"end_year"`
	AnnualPay decimal.Decimal `json:"annual_pay"`
}

// MilestoneRef identifies a milestone in diagnostics and summaries
type MilestoneRef struct {
	Kind  MilestoneKind `json:"kind"`
	Label string        `json:"label"`
	Year  int           `json:"year"`
}

// ProjectionResult is the parallel-array time series returned to callers.
// Every slice has one entry per simulated year.
type ProjectionResult struct {
	Name string `json:"name,omitempty"`

	Ages        []int             `json:"ages"`
	NetWorth    []decimal.Decimal `json:"net_worth"`
	Income      []decimal.Decimal `json:"income"`
	Expenses    []decimal.Decimal `json:"expenses"`
	Assets      []decimal.Decimal `json:"assets"`
	Liabilities []decimal.Decimal `json:"liabilities"`
	NetCashFlow []decimal.Decimal `json:"net_cash_flow"`

	// Expense categories
	Housing           []decimal.Decimal `json:"housing"`
	Transportation    []decimal.Decimal `json:"transportation"`
	Food              []decimal.Decimal `json:"food"`
	Healthcare        []decimal.Decimal `json:"healthcare"`
	PersonalInsurance []decimal.Decimal `json:"personal_insurance"`
	Apparel           []decimal.Decimal `json:"apparel"`
	Services          []decimal.Decimal `json:"services"`
	Entertainment     []decimal.Decimal `json:"entertainment"`
	Other             []decimal.Decimal `json:"other"`
	Education         []decimal.Decimal `json:"education"`
	Childcare         []decimal.Decimal `json:"childcare"`
	Debt              []decimal.Decimal `json:"debt"`
	Discretionary     []decimal.Decimal `json:"discretionary"`

	// Asset breakdown
	Savings           []decimal.Decimal `json:"savings"`
	RetirementSavings []decimal.Decimal `json:"retirement_savings"`
	Investments       []decimal.Decimal `json:"investments"`
	HomeValue         []decimal.Decimal `json:"home_value"`
	CarValue          []decimal.Decimal `json:"car_value"`
	OtherAssets       []decimal.Decimal `json:"other_assets"`

	// Liability breakdown
	Mortgage            []decimal.Decimal `json:"mortgage"`
	CarLoan             []decimal.Decimal `json:"car_loan"`
	StudentLoan         []decimal.Decimal `json:"student_loan"`
	EducationLoans      []decimal.Decimal `json:"education_loans"`
	GraduateSchoolLoans []decimal.Decimal `json:"graduate_school_loans"`
	PersonalLoans       []decimal.Decimal `json:"personal_loans"`
	OtherLiabilities    []decimal.Decimal `json:"other_liabilities"`

	// Taxes
	PayrollTax       []decimal.Decimal `json:"payroll_tax"`
	FederalTax       []decimal.Decimal `json:"federal_tax"`
	StateTax         []decimal.Decimal `json:"state_tax"`
	TotalTax         []decimal.Decimal `json:"total_tax"`
	EffectiveTaxRate []decimal.Decimal `json:"effective_tax_rate"`
	MarginalTaxRate  []decimal.Decimal `json:"marginal_tax_rate"`

	RetirementContribution []decimal.Decimal `json:"retirement_contribution"`
	Financing              []decimal.Decimal `json:"financing"`
	CapitalOutlay          []decimal.Decimal `json:"capital_outlay"`

	EducationPath      []EducationPath  `json:"education_path,omitempty"`
	JobPath            []JobPathEntry   `json:"job_path,omitempty"`
	MilitaryPath       []MilitaryPath   `json:"military_path,omitempty"`
	AppliedMilestones  []MilestoneRef   `json:"applied_milestones,omitempty"`
	DeferredMilestones []MilestoneRef   `json:"deferred_milestones,omitempty"`
	Location           ResolvedLocation `json:"location"`
	Diagnostics        []Diagnostic     `json:"diagnostics,omitempty"`
}

// Years returns the number of simulated years in the result
func (r *ProjectionResult) Years() int {
	return len(r.Ages)
}

// CategorySeries returns the series for an expense category
func (r *ProjectionResult) CategorySeries(c ExpenseCategory) []decimal.Decimal {
	if p := r.categoryPtr(c); p != nil {
		return *p
	}
	return nil
}

// AssetSeries returns the series for an asset bucket
func (r *ProjectionResult) AssetSeries(b AssetBucket) []decimal.Decimal {
	if p := r.assetPtr(b); p != nil {
		return *p
	}
	return nil
}

// LiabilitySeries returns the series for a liability bucket
func (r *ProjectionResult) LiabilitySeries(b LiabilityBucket) []decimal.Decimal {
	if p := r.liabilityPtr(b); p != nil {
		return *p
	}
	return nil
}

// AppendCategory appends a value to the category series
func (r *ProjectionResult) AppendCategory(c ExpenseCategory, v decimal.Decimal) {
	if p := r.categoryPtr(c); p != nil {
		*p = append(*p, v)
	}
}

// AppendAsset appends a value to the asset bucket series
func (r *ProjectionResult) AppendAsset(b AssetBucket, v decimal.Decimal) {
	if p := r.assetPtr(b); p != nil {
		*p = append(*p, v)
	}
}

// AppendLiability appends a value to the liability bucket series
func (r *ProjectionResult) AppendLiability(b LiabilityBucket, v decimal.Decimal) {
	if p := r.liabilityPtr(b); p != nil {
		*p = append(*p, v)
	}
}

func (r *ProjectionResult) categoryPtr(c ExpenseCategory) *[]decimal.Decimal {
	switch c {
	case CategoryHousing:
		return &r.Housing
	case CategoryTransportation:
		return &r.Transportation
	case CategoryFood:
		return &r.Food
	case CategoryHealthcare:
		return &r.Healthcare
	case CategoryPersonalInsurance:
		return &r.PersonalInsurance
	case CategoryApparel:
		return &r.Apparel
	case CategoryServices:
		return &r.Services
	case CategoryEntertainment:
		return &r.Entertainment
	case CategoryOther:
		return &r.Other
	case CategoryEducation:
		return &r.Education
	case CategoryChildcare:
		return &r.Childcare
	case CategoryDebt:
		return &r.Debt
	case CategoryDiscretionary:
		return &r.Discretionary
	}
	return nil
}

func (r *ProjectionResult) assetPtr(b AssetBucket) *[]decimal.Decimal {
	switch b {
	case BucketSavings:
		return &r.Savings
	case BucketRetirement:
		return &r.RetirementSavings
	case BucketInvestments:
		return &r.Investments
	case BucketHomeValue:
		return &r.HomeValue
	case BucketCarValue:
		return &r.CarValue
	case BucketOtherAssets:
		return &r.OtherAssets
	}
	return nil
}

func (r *ProjectionResult) liabilityPtr(b LiabilityBucket) *[]decimal.Decimal {
	switch b {
	case BucketMortgage:
		return &r.Mortgage
	case BucketCarLoan:
		return &r.CarLoan
	case BucketStudentLoan:
		return &r.StudentLoan
	case BucketEducationLoans:
		return &r.EducationLoans
	case BucketGraduateSchoolLoans:
		return &r.GraduateSchoolLoans
	case BucketPersonalLoans:
		return &r.PersonalLoans
	case BucketOtherLiabilities:
		return &r.OtherLiabilities
	}
	return nil
}

// ScenarioProjection pairs a scenario name with its projection
type ScenarioProjection struct {
	Name   string            `json:"name"`
	Result *ProjectionResult `json:"result"`
}

// ProjectionReport is the set of projections handed to output formatters
type ProjectionReport struct {
	Scenarios   []ScenarioProjection `json:"scenarios"`
	Assumptions []string             `json:"assumptions,omitempty"`
}
