package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVDetailedExporter provides every annual series per scenario/year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

type detailedColumn struct {
	name   string
	series func(*domain.ProjectionResult) []decimal.Decimal
}

func detailedColumns() []detailedColumn {
	cols := []detailedColumn{
		{"Income", func(r *domain.ProjectionResult) []decimal.Decimal { return r.Income }},
		{"Expenses", func(r *domain.ProjectionResult) []decimal.Decimal { return r.Expenses }},
		{"NetCashFlow", func(r *domain.ProjectionResult) []decimal.Decimal { return r.NetCashFlow }},
		{"Assets", func(r *domain.ProjectionResult) []decimal.Decimal { return r.Assets }},
		{"Liabilities", func(r *domain.ProjectionResult) []decimal.Decimal { return r.Liabilities }},
		{"NetWorth", func(r *domain.ProjectionResult) []decimal.Decimal { return r.NetWorth }},
	}
	for _, c := range domain.ExpenseCategories {
		cols = append(cols, detailedColumn{string(c), func(r *domain.ProjectionResult) []decimal.Decimal { return r.CategorySeries(c) }})
	}
	for _, b := range domain.AssetBuckets {
		cols = append(cols, detailedColumn{string(b), func(r *domain.ProjectionResult) []decimal.Decimal { return r.AssetSeries(b) }})
	}
	for _, b := range domain.LiabilityBuckets {
		cols = append(cols, detailedColumn{string(b), func(r *domain.ProjectionResult) []decimal.Decimal { return r.LiabilitySeries(b) }})
	}
	return append(cols,
		detailedColumn{"PayrollTax", func(r *domain.ProjectionResult) []decimal.Decimal { return r.PayrollTax }},
		detailedColumn{"FederalTax", func(r *domain.ProjectionResult) []decimal.Decimal { return r.FederalTax }},
		detailedColumn{"StateTax", func(r *domain.ProjectionResult) []decimal.Decimal { return r.StateTax }},
		detailedColumn{"TotalTax", func(r *domain.ProjectionResult) []decimal.Decimal { return r.TotalTax }},
		detailedColumn{"RetirementContribution", func(r *domain.ProjectionResult) []decimal.Decimal { return r.RetirementContribution }},
		detailedColumn{"Financing", func(r *domain.ProjectionResult) []decimal.Decimal { return r.Financing }},
		detailedColumn{"CapitalOutlay", func(r *domain.ProjectionResult) []decimal.Decimal { return r.CapitalOutlay }},
	)
}

func (c CSVDetailedExporter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	cols := detailedColumns()

	header := []string{"Scenario", "Year", "Age"}
	for _, col := range cols {
		header = append(header, col.name)
	}
	header = append(header, "EffectiveTaxRate", "MarginalTaxRate")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sc := range report.Scenarios {
		r := sc.Result
		if r == nil {
			continue
		}
		for i, age := range r.Ages {
			row := []string{sc.Name, intToString(i), intToString(age)}
			for _, col := range cols {
				row = append(row, at(col.series(r), i).StringFixed(2))
			}
			row = append(row, at(r.EffectiveTaxRate, i).StringFixed(4), at(r.MarginalTaxRate, i).StringFixed(4))
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
