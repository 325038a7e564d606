package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rpgo/lifepath/internal/domain"
)

// ConsoleFormatter renders the detailed year-by-year console report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "LIFE PATH FINANCIAL PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, sc := range report.Scenarios {
		if sc.Result == nil {
			continue
		}
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, sc.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeLocation(&buf, sc.Result.Location)
		writeYearTable(&buf, sc.Result)
		writeBreakdown(&buf, sc.Result)
		writeMilestones(&buf, sc.Result)
		writeDiagnostics(&buf, sc.Result.Diagnostics)
		fmt.Fprintln(&buf)
	}

	writeComparison(&buf, report)
	return buf.Bytes(), nil
}

func writeLocation(buf *bytes.Buffer, loc domain.ResolvedLocation) {
	place := "national defaults"
	if loc.City != "" || loc.State != "" {
		place = strings.TrimSpace(strings.Trim(loc.City+", "+loc.State, ", "))
	}
	fmt.Fprintf(buf, "Location: %s (income x%s, expenses x%s, source %s)\n\n",
		place, loc.IncomeAdjustmentFactor.StringFixed(2), loc.ExpenseFactor.StringFixed(2), loc.Source)
}

func writeYearTable(buf *bytes.Buffer, r *domain.ProjectionResult) {
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Age\tIncome\tTaxes\tExpenses\tNet Cash Flow\tAssets\tLiabilities\tNet Worth\t")
	for i, age := range r.Ages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			age,
			FormatCurrency(at(r.Income, i)),
			FormatCurrency(at(r.TotalTax, i)),
			FormatCurrency(at(r.Expenses, i)),
			FormatCurrency(at(r.NetCashFlow, i)),
			FormatCurrency(at(r.Assets, i)),
			FormatCurrency(at(r.Liabilities, i)),
			FormatCurrency(at(r.NetWorth, i)),
		)
	}
	tw.Flush()
	fmt.Fprintln(buf)
}

// writeBreakdown prints the final year's expense categories and balance sheet
func writeBreakdown(buf *bytes.Buffer, r *domain.ProjectionResult) {
	last := r.Years() - 1
	if last < 0 {
		return
	}
	fmt.Fprintf(buf, "FINAL YEAR (AGE %d) BREAKDOWN:\n", r.Ages[last])
	for _, c := range domain.ExpenseCategories {
		if v := at(r.CategorySeries(c), last); !v.IsZero() {
			fmt.Fprintf(buf, "  %-20s %s\n", c, FormatCurrency(v))
		}
	}
	for _, b := range domain.AssetBuckets {
		if v := at(r.AssetSeries(b), last); !v.IsZero() {
			fmt.Fprintf(buf, "  %-20s %s\n", b, FormatCurrency(v))
		}
	}
	for _, b := range domain.LiabilityBuckets {
		if v := at(r.LiabilitySeries(b), last); !v.IsZero() {
			fmt.Fprintf(buf, "  %-20s -%s\n", b, FormatCurrency(v))
		}
	}
	fmt.Fprintf(buf, "  %-20s %s (marginal %s)\n", "effective tax rate", FormatRate(at(r.EffectiveTaxRate, last)), FormatRate(at(r.MarginalTaxRate, last)))
	fmt.Fprintln(buf)
}

func writeMilestones(buf *bytes.Buffer, r *domain.ProjectionResult) {
	if len(r.AppliedMilestones) == 0 && len(r.DeferredMilestones) == 0 {
		return
	}
	fmt.Fprintln(buf, "MILESTONES:")
	for _, m := range r.AppliedMilestones {
		fmt.Fprintf(buf, "  year %-3d %-14s %s\n", m.Year, m.Kind, m.Label)
	}
	for _, m := range r.DeferredMilestones {
		fmt.Fprintf(buf, "  year %-3d %-14s %s (beyond horizon)\n", m.Year, m.Kind, m.Label)
	}
	for _, e := range r.EducationPath {
		fmt.Fprintf(buf, "  education: %s %s, graduates year %d, borrowed %s\n", e.Level, e.School, e.GraduationYear, FormatCurrency(e.TotalBorrowed))
	}
	for _, j := range r.JobPath {
		fmt.Fprintf(buf, "  job: year %d %s at %s (%s)\n", j.Year, j.Occupation, FormatCurrency(j.Salary), j.Source)
	}
	for _, m := range r.MilitaryPath {
		fmt.Fprintf(buf, "  military: %s years %d-%d at %s\n", m.Branch, m.StartYear, m.EndYear, FormatCurrency(m.AnnualPay))
	}
	fmt.Fprintln(buf)
}

func writeDiagnostics(buf *bytes.Buffer, diags []domain.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(buf, "NOTES:")
	for _, d := range diags {
		year := ""
		if d.Year != nil {
			year = fmt.Sprintf(" (year %d)", *d.Year)
		}
		fmt.Fprintf(buf, "  [%s] %s%s: %s\n", d.Severity, d.Subject, year, d.Message)
	}
}

func writeComparison(buf *bytes.Buffer, report *domain.ProjectionReport) {
	analyses := AnalyzeAll(report)
	if len(analyses) < 2 {
		return
	}
	fmt.Fprintln(buf, "SCENARIO COMPARISON")
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tFinal Net Worth\tPeak Debt\tShortfall Years\tDebt Free Age\t")
	for _, a := range analyses {
		debtFree := optionalAge(a.DebtFreeAge)
		if debtFree == "" {
			debtFree = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t\n", a.Name, FormatCurrency(a.FinalNetWorth), FormatCurrency(a.PeakLiabilities), a.ShortfallYears, debtFree)
	}
	tw.Flush()

	rec := AnalyzeScenarios(report)
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Recommended: %s (final net worth %s, Δ %s / %s vs %s)\n",
		rec.ScenarioName, FormatCurrency(rec.FinalNetWorth), FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange), analyses[0].Name)
}
