package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MilestoneKind is the tag of a milestone variant
type MilestoneKind string

const (
	MilestoneMarriage     MilestoneKind = "marriage"
	MilestoneHomePurchase MilestoneKind = "home_purchase"
	MilestoneCarPurchase  MilestoneKind = "car_purchase"
	MilestoneChild        MilestoneKind = "child"
	MilestoneEducation    MilestoneKind = "education"
	MilestoneMilitary     MilestoneKind = "military"
	MilestoneJobChange    MilestoneKind = "job_change"
)

// WorkStatus is tri-state: the zero value means unspecified, which keeps the current status.
type WorkStatus string

const (
	WorkStatusUnspecified WorkStatus = ""
	WorkStatusWorking     WorkStatus = "working"
	WorkStatusNotWorking  WorkStatus = "not_working"
)

// Valid reports whether s is one of the three recognised states
func (s WorkStatus) Valid() bool {
	return s == WorkStatusUnspecified || s == WorkStatusWorking || s == WorkStatusNotWorking
}

// Milestone is a scheduled life event. The set of implementations is closed.
type Milestone interface {
	Kind() MilestoneKind
	TriggerYear() int
	Label() string
	Validate() error
}

// MilestoneBase holds the fields every variant shares
type MilestoneBase struct {
	Year int    `yaml:"year" json:"year"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

func (b MilestoneBase) TriggerYear() int { return b.Year }

func (b MilestoneBase) validateYear() error {
	if b.Year < 0 {
		return fmt.Errorf("year must be non-negative, got %d", b.Year)
	}
	return nil
}

func (b MilestoneBase) label(kind MilestoneKind) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("%s@%d", kind, b.Year)
}

// Marriage adds a spouse's income, assets and liabilities and switches to married filing
type Marriage struct {
	MilestoneBase        `yaml:",inline"`
	SpouseIncome         *decimal.Decimal `yaml:"spouse_income,omitempty" json:"spouse_income,omitempty"`
	SpouseIncomeGrowth   *decimal.Decimal `yaml:"spouse_income_growth,omitempty" json:"spouse_income_growth,omitempty"`
	SpouseAssets         []Asset          `yaml:"spouse_assets,omitempty" json:"spouse_assets,omitempty"`
	SpouseLiabilities    []Liability      `yaml:"spouse_liabilities,omitempty" json:"spouse_liabilities,omitempty"`
	WeddingCost          *decimal.Decimal `yaml:"wedding_cost,omitempty" json:"wedding_cost,omitempty"`
	LivingCostMultiplier *decimal.Decimal `yaml:"living_cost_multiplier,omitempty" json:"living_cost_multiplier,omitempty"`
}

func (m Marriage) Kind() MilestoneKind { return MilestoneMarriage }
func (m Marriage) Label() string       { return m.label(m.Kind()) }

func (m Marriage) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if m.SpouseIncome != nil && m.SpouseIncome.IsNegative() {
		return fmt.Errorf("spouse_income cannot be negative")
	}
	if m.WeddingCost != nil && m.WeddingCost.IsNegative() {
		return fmt.Errorf("wedding_cost cannot be negative")
	}
	if m.LivingCostMultiplier != nil && m.LivingCostMultiplier.IsNegative() {
		return fmt.Errorf("living_cost_multiplier cannot be negative")
	}
	return nil
}

// HomePurchase creates a home asset and mortgage and replaces rent
type HomePurchase struct {
	MilestoneBase      `yaml:",inline"`
	HomePrice          decimal.Decimal  `yaml:"home_price" json:"home_price"`
	DownPayment        *decimal.Decimal `yaml:"down_payment,omitempty" json:"down_payment,omitempty"`
	DownPaymentPercent *decimal.Decimal `yaml:"down_payment_percent,omitempty" json:"down_payment_percent,omitempty"`
	MortgageRate       *decimal.Decimal `yaml:"mortgage_rate,omitempty" json:"mortgage_rate,omitempty"`
	TermYears          *int             `yaml:"term_years,omitempty" json:"term_years,omitempty"`
	AppreciationRate   *decimal.Decimal `yaml:"appreciation_rate,omitempty" json:"appreciation_rate,omitempty"`
	PropertyTaxRate    *decimal.Decimal `yaml:"property_tax_rate,omitempty" json:"property_tax_rate,omitempty"`
	InsuranceRate      *decimal.Decimal `yaml:"insurance_rate,omitempty" json:"insurance_rate,omitempty"`
	MaintenanceRate    *decimal.Decimal `yaml:"maintenance_rate,omitempty" json:"maintenance_rate,omitempty"`
	RentReduction      *decimal.Decimal `yaml:"rent_reduction,omitempty" json:"rent_reduction,omitempty"`
}

func (m HomePurchase) Kind() MilestoneKind { return MilestoneHomePurchase }
func (m HomePurchase) Label() string       { return m.label(m.Kind()) }

func (m HomePurchase) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if !m.HomePrice.IsPositive() {
		return fmt.Errorf("home_price must be positive")
	}
	if m.DownPayment != nil && m.DownPayment.IsNegative() {
		return fmt.Errorf("down_payment cannot be negative")
	}
	if m.DownPaymentPercent != nil && (m.DownPaymentPercent.IsNegative() || m.DownPaymentPercent.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("down_payment_percent must be between 0 and 1")
	}
	if m.TermYears != nil && *m.TermYears <= 0 {
		return fmt.Errorf("term_years must be positive")
	}
	if m.RentReduction != nil && (m.RentReduction.IsNegative() || m.RentReduction.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("rent_reduction must be between 0 and 1")
	}
	return nil
}

// CarPurchase creates a depreciating vehicle asset and a car loan
type CarPurchase struct {
	MilestoneBase       `yaml:",inline"`
	CarPrice            decimal.Decimal  `yaml:"car_price" json:"car_price"`
	DownPayment         *decimal.Decimal `yaml:"down_payment,omitempty" json:"down_payment,omitempty"`
	LoanRate            *decimal.Decimal `yaml:"loan_rate,omitempty" json:"loan_rate,omitempty"`
	TermYears           *int             `yaml:"term_years,omitempty" json:"term_years,omitempty"`
	DepreciationRate    *decimal.Decimal `yaml:"depreciation_rate,omitempty" json:"depreciation_rate,omitempty"`
	AnnualOperatingCost *decimal.Decimal `yaml:"annual_operating_cost,omitempty" json:"annual_operating_cost,omitempty"`
}

func (m CarPurchase) Kind() MilestoneKind { return MilestoneCarPurchase }
func (m CarPurchase) Label() string       { return m.label(m.Kind()) }

func (m CarPurchase) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if !m.CarPrice.IsPositive() {
		return fmt.Errorf("car_price must be positive")
	}
	if m.DownPayment != nil && m.DownPayment.IsNegative() {
		return fmt.Errorf("down_payment cannot be negative")
	}
	if m.TermYears != nil && *m.TermYears <= 0 {
		return fmt.Errorf("term_years must be positive")
	}
	return nil
}

// Child adds childcare and dependent living costs
type Child struct {
	MilestoneBase  `yaml:",inline"`
	Count          *int             `yaml:"count,omitempty" json:"count,omitempty"`
	AnnualCost     *decimal.Decimal `yaml:"annual_cost,omitempty" json:"annual_cost,omitempty"`
	ChildcareCost  *decimal.Decimal `yaml:"childcare_cost,omitempty" json:"childcare_cost,omitempty"`
	ChildcareYears *int             `yaml:"childcare_years,omitempty" json:"childcare_years,omitempty"`
	DependentYears *int             `yaml:"dependent_years,omitempty" json:"dependent_years,omitempty"`
}

func (m Child) Kind() MilestoneKind { return MilestoneChild }
func (m Child) Label() string       { return m.label(m.Kind()) }

func (m Child) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if m.Count != nil && *m.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if m.AnnualCost != nil && m.AnnualCost.IsNegative() {
		return fmt.Errorf("annual_cost cannot be negative")
	}
	if m.ChildcareCost != nil && m.ChildcareCost.IsNegative() {
		return fmt.Errorf("childcare_cost cannot be negative")
	}
	if m.ChildcareYears != nil && *m.ChildcareYears < 0 {
		return fmt.Errorf("childcare_years cannot be negative")
	}
	if m.DependentYears != nil && *m.DependentYears < 0 {
		return fmt.Errorf("dependent_years cannot be negative")
	}
	return nil
}

// EducationLevel distinguishes undergraduate and graduate programs
type EducationLevel string

const (
	EducationCollege  EducationLevel = "college"
	EducationGraduate EducationLevel = "graduate"
)

// Education models attending school, optionally financed by deferred loans
type Education struct {
	MilestoneBase            `yaml:",inline"`
	Level                    EducationLevel   `yaml:"level,omitempty" json:"level,omitempty"`
	School                   string           `yaml:"school,omitempty" json:"school,omitempty"`
	Years                    int              `yaml:"years" json:"years"`
	AnnualTuition            decimal.Decimal  `yaml:"annual_tuition" json:"annual_tuition"`
	AnnualLivingCost         *decimal.Decimal `yaml:"annual_living_cost,omitempty" json:"annual_living_cost,omitempty"`
	TuitionInflation         *decimal.Decimal `yaml:"tuition_inflation,omitempty" json:"tuition_inflation,omitempty"`
	AnnualLoanAmount         *decimal.Decimal `yaml:"annual_loan_amount,omitempty" json:"annual_loan_amount,omitempty"`
	LoanRate                 *decimal.Decimal `yaml:"loan_rate,omitempty" json:"loan_rate,omitempty"`
	LoanTermYears            *int             `yaml:"loan_term_years,omitempty" json:"loan_term_years,omitempty"`
	Subsidized               bool             `yaml:"subsidized,omitempty" json:"subsidized,omitempty"`
	WorkStatus               WorkStatus       `yaml:"work_status,omitempty" json:"work_status,omitempty"`
	PartTimeIncome           *decimal.Decimal `yaml:"part_time_income,omitempty" json:"part_time_income,omitempty"`
	PostGraduationSalary     *decimal.Decimal `yaml:"post_graduation_salary,omitempty" json:"post_graduation_salary,omitempty"`
	PostGraduationOccupation string           `yaml:"post_graduation_occupation,omitempty" json:"post_graduation_occupation,omitempty"`
	SalaryPercentile         *int             `yaml:"salary_percentile,omitempty" json:"salary_percentile,omitempty"`
	SalaryGrowth             *decimal.Decimal `yaml:"salary_growth,omitempty" json:"salary_growth,omitempty"`
}

func (m Education) Kind() MilestoneKind { return MilestoneEducation }
func (m Education) Label() string       { return m.label(m.Kind()) }

func (m Education) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if m.Years <= 0 {
		return fmt.Errorf("years must be positive")
	}
	if m.Level != "" && m.Level != EducationCollege && m.Level != EducationGraduate {
		return fmt.Errorf("level must be 'college' or 'graduate', got %q", m.Level)
	}
	if m.AnnualTuition.IsNegative() {
		return fmt.Errorf("annual_tuition cannot be negative")
	}
	if m.AnnualLoanAmount != nil && m.AnnualLoanAmount.IsNegative() {
		return fmt.Errorf("annual_loan_amount cannot be negative")
	}
	if m.LoanTermYears != nil && *m.LoanTermYears <= 0 {
		return fmt.Errorf("loan_term_years must be positive")
	}
	if !m.WorkStatus.Valid() {
		return fmt.Errorf("work_status must be 'working' or 'not_working', got %q", m.WorkStatus)
	}
	if err := validatePercentile(m.SalaryPercentile); err != nil {
		return err
	}
	return nil
}

// Military models a period of service that replaces civilian earnings
type Military struct {
	MilestoneBase    `yaml:",inline"`
	Branch           string           `yaml:"branch,omitempty" json:"branch,omitempty"`
	Years            int              `yaml:"years" json:"years"`
	AnnualPay        decimal.Decimal  `yaml:"annual_pay" json:"annual_pay"`
	PayGrowth        *decimal.Decimal `yaml:"pay_growth,omitempty" json:"pay_growth,omitempty"`
	HousingAllowance *decimal.Decimal `yaml:"housing_allowance,omitempty" json:"housing_allowance,omitempty"`
	EnlistmentBonus  *decimal.Decimal `yaml:"enlistment_bonus,omitempty" json:"enlistment_bonus,omitempty"`
	WorkStatus       WorkStatus       `yaml:"work_status,omitempty" json:"work_status,omitempty"`
}

func (m Military) Kind() MilestoneKind { return MilestoneMilitary }
func (m Military) Label() string       { return m.label(m.Kind()) }

func (m Military) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if m.Years <= 0 {
		return fmt.Errorf("years must be positive")
	}
	if !m.AnnualPay.IsPositive() {
		return fmt.Errorf("annual_pay must be positive")
	}
	if !m.WorkStatus.Valid() {
		return fmt.Errorf("work_status must be 'working' or 'not_working', got %q", m.WorkStatus)
	}
	return nil
}

// JobChange replaces the primary income stream
type JobChange struct {
	MilestoneBase    `yaml:",inline"`
	Occupation       string           `yaml:"occupation,omitempty" json:"occupation,omitempty"`
	NewSalary        *decimal.Decimal `yaml:"new_salary,omitempty" json:"new_salary,omitempty"`
	SalaryPercentile *int             `yaml:"salary_percentile,omitempty" json:"salary_percentile,omitempty"`
	SalaryGrowth     *decimal.Decimal `yaml:"salary_growth,omitempty" json:"salary_growth,omitempty"`
	BonusPercent     *decimal.Decimal `yaml:"bonus_percent,omitempty" json:"bonus_percent,omitempty"`
	SigningBonus     *decimal.Decimal `yaml:"signing_bonus,omitempty" json:"signing_bonus,omitempty"`
	RelocationCost   *decimal.Decimal `yaml:"relocation_cost,omitempty" json:"relocation_cost,omitempty"`
}

func (m JobChange) Kind() MilestoneKind { return MilestoneJobChange }
func (m JobChange) Label() string       { return m.label(m.Kind()) }

func (m JobChange) Validate() error {
	if err := m.validateYear(); err != nil {
		return err
	}
	if m.NewSalary == nil && m.Occupation == "" {
		return fmt.Errorf("either new_salary or occupation is required")
	}
	if m.NewSalary != nil && m.NewSalary.IsNegative() {
		return fmt.Errorf("new_salary cannot be negative")
	}
	return validatePercentile(m.SalaryPercentile)
}

// UnknownMilestone carries an unrecognised type so it can be reported and skipped
type UnknownMilestone struct {
	MilestoneBase `yaml:",inline"`
	Type          string `yaml:"type" json:"type"`
}

func (m UnknownMilestone) Kind() MilestoneKind { return MilestoneKind(m.Type) }
func (m UnknownMilestone) Label() string       { return m.label(m.Kind()) }

func (m UnknownMilestone) Validate() error {
	return fmt.Errorf("unrecognized milestone type %q", m.Type)
}

// InvalidMilestone holds a milestone whose fields failed to decode. It fails
// validation with the decode error so the engine skips it like any other bad milestone.
type InvalidMilestone struct {
	MilestoneBase `yaml:",inline"`
	Type          MilestoneKind `yaml:"type" json:"type"`
	Err           error         `yaml:"-" json:"-"`
}

func (m InvalidMilestone) Kind() MilestoneKind { return m.Type }
func (m InvalidMilestone) Label() string       { return m.label(m.Kind()) }

func (m InvalidMilestone) Validate() error {
	return fmt.Errorf("malformed %s milestone: %w", m.Type, m.Err)
}

func invalidMilestone(hdr milestoneHeader, err error) InvalidMilestone {
	return InvalidMilestone{MilestoneBase: MilestoneBase{Year: hdr.Year, Name: hdr.Name}, Type: MilestoneKind(hdr.Type), Err: err}
}

func validatePercentile(p *int) error {
	if p == nil {
		return nil
	}
	switch *p {
	case 10, 25, 50, 75, 90:
		return nil
	}
	return fmt.Errorf("salary_percentile must be one of 10, 25, 50, 75, 90, got %d", *p)
}

// MilestoneSpec wraps a Milestone variant for decoding from YAML or JSON by its type tag
type MilestoneSpec struct {
	Milestone
}

type milestoneHeader struct {
	Type string `yaml:"type" json:"type"`
	Year int    `yaml:"year" json:"year"`
	Name string `yaml:"name" json:"name"`
}

func newMilestone(kind MilestoneKind) Milestone {
	switch kind {
	case MilestoneMarriage:
		return &Marriage{}
	case MilestoneHomePurchase:
		return &HomePurchase{}
	case MilestoneCarPurchase:
		return &CarPurchase{}
	case MilestoneChild:
		return &Child{}
	case MilestoneEducation:
		return &Education{}
	case MilestoneMilitary:
		return &Military{}
	case MilestoneJobChange:
		return &JobChange{}
	}
	return nil
}

// deref turns the decoded pointer back into a value variant
func deref(m Milestone) Milestone {
	switch v := m.(type) {
	case *Marriage:
		return *v
	case *HomePurchase:
		return *v
	case *CarPurchase:
		return *v
	case *Child:
		return *v
	case *Education:
		return *v
	case *Military:
		return *v
	case *JobChange:
		return *v
	}
	return m
}

// UnmarshalYAML implements custom YAML unmarshaling dispatching on the type tag
func (s *MilestoneSpec) UnmarshalYAML(value *yaml.Node) error {
	// Decode errors stay local to the milestone; the rest of the bundle still loads.
	var hdr milestoneHeader
	if err := value.Decode(&hdr); err != nil {
		s.Milestone = invalidMilestone(hdr, err)
		return nil
	}
	target := newMilestone(MilestoneKind(hdr.Type))
	if target == nil {
		s.Milestone = UnknownMilestone{MilestoneBase: MilestoneBase{Year: hdr.Year, Name: hdr.Name}, Type: hdr.Type}
		return nil
	}
	if err := value.Decode(target); err != nil {
		s.Milestone = invalidMilestone(hdr, err)
		return nil
	}
	s.Milestone = deref(target)
	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling dispatching on the type tag
func (s *MilestoneSpec) UnmarshalJSON(data []byte) error {
	var hdr milestoneHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		s.Milestone = invalidMilestone(hdr, err)
		return nil
	}
	target := newMilestone(MilestoneKind(hdr.Type))
	if target == nil {
		s.Milestone = UnknownMilestone{MilestoneBase: MilestoneBase{Year: hdr.Year, Name: hdr.Name}, Type: hdr.Type}
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		s.Milestone = invalidMilestone(hdr, err)
		return nil
	}
	s.Milestone = deref(target)
	return nil
}

// MarshalYAML writes the variant back out with its type tag
func (s MilestoneSpec) MarshalYAML() (interface{}, error) {
	if s.Milestone == nil {
		return nil, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(s.Milestone); err != nil {
		return nil, err
	}
	switch s.Milestone.(type) {
	case UnknownMilestone, InvalidMilestone:
	default:
		node.Content = append([]*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "type"},
			{Kind: yaml.ScalarNode, Value: string(s.Milestone.Kind())},
		}, node.Content...)
	}
	return node, nil
}

// MarshalJSON writes the variant with its type tag
func (s MilestoneSpec) MarshalJSON() ([]byte, error) {
	if s.Milestone == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(s.Milestone)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(string(s.Milestone.Kind()))
	if err != nil {
		return nil, err
	}
	fields["type"] = kind
	return json.Marshal(fields)
}
