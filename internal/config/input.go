package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario bundle from a YAML or JSON file. A bundle
// without a name takes the file's base name.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	bundle, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if bundle.Name == "" {
		bundle.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return bundle, nil
}

// LoadAll loads several scenario files in order
func (ip *InputParser) LoadAll(filenames []string) ([]*domain.Bundle, error) {
	bundles := make([]*domain.Bundle, 0, len(filenames))
	for _, f := range filenames {
		b, err := ip.LoadFromFile(f)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// Parse decodes and validates a bundle. JSON is a subset of YAML, so both are
// read by the same decoder. Unknown fields are rejected.
func (ip *InputParser) Parse(data []byte) (*domain.Bundle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: scenario file is empty", domain.ErrInvalidBundle)
	}

	var bundle domain.Bundle
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("%w: failed to parse scenario: %v", domain.ErrInvalidBundle, err)
	}

	if err := ip.ValidateBundle(&bundle); err != nil {
		return nil, fmt.Errorf("bundle validation failed: %w", err)
	}
	return &bundle, nil
}

// ValidateBundle checks everything a run cannot start without. Problems with
// individual streams and milestones are reported by the engine as diagnostics
// instead, so one bad element does not reject the whole scenario.
func (ip *InputParser) ValidateBundle(b *domain.Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := ip.validateTaxPolicy(b.TaxPolicy); err != nil {
		return fmt.Errorf("%w: tax_policy: %v", domain.ErrInvalidBundle, err)
	}
	if b.LocationData != nil && b.LocationData.CostOfLivingIndex != nil && !b.LocationData.CostOfLivingIndex.IsPositive() {
		return fmt.Errorf("%w: location_data.cost_of_living_index must be positive", domain.ErrInvalidBundle)
	}
	return nil
}

func (ip *InputParser) validateTaxPolicy(p *domain.TaxPolicy) error {
	if p == nil {
		return nil
	}
	for name, schedule := range map[string][]domain.TaxBracket{
		"federal_brackets_single":  p.FederalBracketsSingle,
		"federal_brackets_married": p.FederalBracketsMarried,
		"state_brackets":           p.StateBrackets,
	} {
		for i, br := range schedule {
			if br.Threshold.IsNegative() {
				return fmt.Errorf("%s[%d]: threshold cannot be negative", name, i)
			}
			if br.Rate.IsNegative() || br.Rate.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%s[%d]: rate must be between 0 and 1", name, i)
			}
		}
	}
	if p.DefaultStateRate != nil && (p.DefaultStateRate.IsNegative() || p.DefaultStateRate.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("default_state_rate must be between 0 and 1")
	}
	if p.StandardDeductionSingle != nil && p.StandardDeductionSingle.IsNegative() {
		return fmt.Errorf("standard_deduction_single cannot be negative")
	}
	if p.StandardDeductionMarried != nil && p.StandardDeductionMarried.IsNegative() {
		return fmt.Errorf("standard_deduction_married cannot be negative")
	}
	return nil
}

// Save writes a bundle as YAML
func (ip *InputParser) Save(b *domain.Bundle, filename string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
func dp(v float64) *decimal.Decimal {
	x := decimal.NewFromFloat(v)
	return &x
}

// CreateExampleBundle creates an example scenario: a new graduate who changes
// jobs, marries, buys a car and a home and has a child
func (ip *InputParser) CreateExampleBundle() *domain.Bundle {
	return &domain.Bundle{
		Name:                       "Graduate in Austin",
		StartAge:                   22,
		YearsToProject:             domain.Years(10),
		PostalCode:                 "78701",
		IncludeBaselineExpenses:    true,
		FilingStatus:               domain.FilingSingle,
		EmergencyFundAmount:        d(6000),
		RetirementContributionRate: d(0.06),
		Assets: []domain.Asset{
			{Type: domain.AssetSavings, Name: "Checking and savings", InitialValue: d(4000)},
		},
		Liabilities: []domain.Liability{
			{Type: domain.LiabilityStudentLoan, Name: "Federal student loan", InitialBalance: d(20000), InterestRate: d(0.05), TermYears: 10},
		},
		Incomes: []domain.Income{
			{Type: domain.IncomeSalary, Name: "Junior developer", AnnualAmount: d(72000), GrowthRate: d(0.03)},
		},
		Expenditures: []domain.Expenditure{
			{Type: domain.CategoryHousing, Name: "Apartment rent", AnnualAmount: d(19200), InflationRate: d(0.03)},
			{Type: domain.CategoryDiscretionary, Name: "Travel", AnnualAmount: d(2500), InflationRate: d(0.025)},
		},
		Milestones: []domain.MilestoneSpec{
			{Milestone: domain.JobChange{
				MilestoneBase:    domain.MilestoneBase{Year: 2, Name: "Move to senior role"},
				Occupation:       "Software Developer",
				SalaryPercentile: domain.Years(50),
				SigningBonus:     dp(10000),
			}},
			{Milestone: domain.Marriage{
				MilestoneBase: domain.MilestoneBase{Year: 3, Name: "Wedding"},
				SpouseIncome:  dp(65000),
				WeddingCost:   dp(25000),
			}},
			{Milestone: domain.CarPurchase{
				MilestoneBase:       domain.MilestoneBase{Year: 4, Name: "Family car"},
				CarPrice:            d(32000),
				DownPayment:         dp(5000),
				AnnualOperatingCost: dp(1800),
			}},
			{Milestone: domain.HomePurchase{
				MilestoneBase: domain.MilestoneBase{Year: 5, Name: "First home"},
				HomePrice:     d(380000),
			}},
			{Milestone: domain.Child{
				MilestoneBase: domain.MilestoneBase{Year: 7, Name: "First child"},
			}},
		},
	}
}
