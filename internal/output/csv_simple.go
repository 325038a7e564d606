package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/lifepath/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario, in report order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "StartAge", "FinalAge", "FinalNetWorth", "FinalAssets", "FinalLiabilities", "PeakLiabilities", "PeakLiabilitiesAge", "ShortfallYears", "DebtFreeAge", "TotalIncome", "TotalTaxes", "TotalExpenses", "Warnings"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, a := range AnalyzeAll(report) {
		row := []string{
			a.Name,
			intToString(a.StartAge),
			intToString(a.FinalAge),
			a.FinalNetWorth.StringFixed(2),
			a.FinalAssets.StringFixed(2),
			a.FinalLiabilities.StringFixed(2),
			a.PeakLiabilities.StringFixed(2),
			intToString(a.PeakLiabilitiesAge),
			intToString(a.ShortfallYears),
			optionalAge(a.DebtFreeAge),
			a.TotalIncome.StringFixed(2),
			a.TotalTaxes.StringFixed(2),
			a.TotalExpenses.StringFixed(2),
			intToString(a.Warnings),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
