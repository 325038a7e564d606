package output

import (
	"sort"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// ScenarioAnalysis holds the headline metrics of one projection
type ScenarioAnalysis struct {
	Name               string
	StartAge           int
	FinalAge           int
	FinalNetWorth      decimal.Decimal
	FinalAssets        decimal.Decimal
	FinalLiabilities   decimal.Decimal
	PeakLiabilities    decimal.Decimal
	PeakLiabilitiesAge int
	ShortfallYears     int
	DebtFreeAge        *int // nil while debt remains at the end of the horizon
	TotalIncome        decimal.Decimal
	TotalTaxes         decimal.Decimal
	TotalExpenses      decimal.Decimal
	Warnings           int
}

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	FinalNetWorth    decimal.Decimal
	NetWorthChange   decimal.Decimal // against the first scenario
	PercentageChange decimal.Decimal
}

// Analyze computes the headline metrics for one projection
func Analyze(name string, r *domain.ProjectionResult) ScenarioAnalysis {
	a := ScenarioAnalysis{Name: name}
	n := r.Years()
	if n == 0 {
		return a
	}
	last := n - 1
	a.StartAge = r.Ages[0]
	a.FinalAge = r.Ages[last]
	a.FinalNetWorth = at(r.NetWorth, last)
	a.FinalAssets = at(r.Assets, last)
	a.FinalLiabilities = at(r.Liabilities, last)

	debtFrom := -1
	for i := 0; i < n; i++ {
		l := at(r.Liabilities, i)
		if l.GreaterThan(a.PeakLiabilities) {
			a.PeakLiabilities = l
			a.PeakLiabilitiesAge = r.Ages[i]
		}
		if at(r.NetCashFlow, i).IsNegative() {
			a.ShortfallYears++
		}
		if l.IsPositive() {
			debtFrom = -1
		} else if debtFrom < 0 {
			debtFrom = i
		}
		a.TotalIncome = a.TotalIncome.Add(at(r.Income, i))
		a.TotalTaxes = a.TotalTaxes.Add(at(r.TotalTax, i))
		a.TotalExpenses = a.TotalExpenses.Add(at(r.Expenses, i))
	}
	if debtFrom >= 0 {
		age := r.Ages[debtFrom]
		a.DebtFreeAge = &age
	}
	for _, d := range r.Diagnostics {
		if d.Severity == domain.SeverityWarning {
			a.Warnings++
		}
	}
	return a
}

// AnalyzeAll analyzes every scenario in report order
func AnalyzeAll(report *domain.ProjectionReport) []ScenarioAnalysis {
	out := make([]ScenarioAnalysis, 0, len(report.Scenarios))
	for _, sc := range report.Scenarios {
		if sc.Result == nil {
			continue
		}
		out = append(out, Analyze(sc.Name, sc.Result))
	}
	return out
}

// AnalyzeScenarios picks the scenario with the highest final net worth; ties
// go to the earlier scenario. Changes are measured against the first scenario.
func AnalyzeScenarios(report *domain.ProjectionReport) Recommendation {
	ranks := AnalyzeAll(report)
	if len(ranks) == 0 {
		return Recommendation{}
	}
	baseline := ranks[0].FinalNetWorth
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].FinalNetWorth.GreaterThan(ranks[j].FinalNetWorth) })
	best := ranks[0]
	delta := best.FinalNetWorth.Sub(baseline)
	pct := decimal.Zero
	if !baseline.IsZero() {
		pct = delta.Div(baseline.Abs()).Mul(decimal.NewFromInt(100))
	}
	return Recommendation{ScenarioName: best.Name, FinalNetWorth: best.FinalNetWorth, NetWorthChange: delta, PercentageChange: pct}
}
