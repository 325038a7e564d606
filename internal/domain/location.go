package domain

import "github.com/shopspring/decimal"

// LocationRecord is a cost-of-living record keyed by postal code, supplied by an external provider
type LocationRecord struct {
	PostalCode             string                              `yaml:"postal_code" json:"postal_code"`
	City                   string                              `yaml:"city,omitempty" json:"city,omitempty"`
	State                  string                              `yaml:"state,omitempty" json:"state,omitempty"`
	IncomeAdjustmentFactor *decimal.Decimal                    `yaml:"income_adjustment_factor,omitempty" json:"income_adjustment_factor,omitempty"`
	CostOfLivingIndex      *decimal.Decimal                    `yaml:"cost_of_living_index,omitempty" json:"cost_of_living_index,omitempty"` // 100 = national average
	MonthlyBaselines       map[ExpenseCategory]decimal.Decimal `yaml:"monthly_baselines,omitempty" json:"monthly_baselines,omitempty"`
}

// ResolvedLocation is the location adjustment actually applied to a run
type ResolvedLocation struct {
	Source                 string                              `json:"source"` // record, provider, default
	PostalCode             string                              `json:"postal_code,omitempty"`
	City                   string                              `json:"city,omitempty"`
	State                  string                              `json:"state,omitempty"`
	IncomeAdjustmentFactor decimal.Decimal                     `json:"income_adjustment_factor"`
	ExpenseFactor          decimal.Decimal                     `json:"expense_factor"`
	AnnualBaselines        map[ExpenseCategory]decimal.Decimal `json:"annual_baselines"`
}

// SalaryPercentiles holds annual salary percentiles for an occupation
type SalaryPercentiles struct {
	P10 decimal.Decimal `yaml:"p10" json:"p10"`
	P25 decimal.Decimal `yaml:"p25" json:"p25"`
	P50 decimal.Decimal `yaml:"p50" json:"p50"`
	P75 decimal.Decimal `yaml:"p75" json:"p75"`
	P90 decimal.Decimal `yaml:"p90" json:"p90"`
}

// At returns the salary at a percentile, defaulting to the median for unknown values
func (p SalaryPercentiles) At(percentile int) decimal.Decimal {
	switch percentile {
	case 10:
		return p.P10
	case 25:
		return p.P25
	case 75:
		return p.P75
	case 90:
		return p.P90
	}
	return p.P50
}

// CareerRecord is an occupation entry from the career provider
type CareerRecord struct {
	Occupation  string            `yaml:"occupation" json:"occupation"`
	Percentiles SalaryPercentiles `yaml:"percentiles" json:"percentiles"`
	GrowthRate  *decimal.Decimal  `yaml:"growth_rate,omitempty" json:"growth_rate,omitempty"`
}
