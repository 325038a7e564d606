package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/lifepath/internal/domain"
)

// ConsoleSummaryFormatter provides a concise console style summary via the formatter interface.
type ConsoleSummaryFormatter struct{}

func (c ConsoleSummaryFormatter) Name() string      { return "console-lite" }
func (c ConsoleSummaryFormatter) Extension() string { return "txt" }

func (c ConsoleSummaryFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "LIFE PATH SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, a := range AnalyzeAll(report) {
		fmt.Fprintf(&buf, "%s: Ages=%d-%d FinalNetWorth=%s FinalDebt=%s PeakDebt=%s ShortfallYears=%d\n",
			a.Name,
			a.StartAge,
			a.FinalAge,
			FormatCurrency(a.FinalNetWorth),
			FormatCurrency(a.FinalLiabilities),
			FormatCurrency(a.PeakLiabilities),
			a.ShortfallYears,
		)
		if a.DebtFreeAge != nil {
			fmt.Fprintf(&buf, "  DebtFreeAge=%d", *a.DebtFreeAge)
		} else {
			fmt.Fprint(&buf, "  DebtFreeAge=never")
		}
		fmt.Fprintf(&buf, " TotalIncome=%s TotalTaxes=%s Warnings=%d\n", FormatCurrency(a.TotalIncome), FormatCurrency(a.TotalTaxes), a.Warnings)
	}
	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}
