package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report with a net worth chart.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"rate": FormatRate,
	"add":  func(i, j int) int { return i + j },
	"at":   at,
	"age":  optionalAge,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type chartSeries struct {
	Name   string    `json:"name"`
	Ages   []int     `json:"ages"`
	Values []float64 `json:"values"`
}

func floats(series []decimal.Decimal) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v.InexactFloat64()
	}
	return out
}

func (h HTMLFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer

	assumptions := report.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}

	var chart []chartSeries
	for _, sc := range report.Scenarios {
		if sc.Result != nil {
			chart = append(chart, chartSeries{Name: sc.Name, Ages: sc.Result.Ages, Values: floats(sc.Result.NetWorth)})
		}
	}

	data := struct {
		*domain.ProjectionReport
		Analyses       []ScenarioAnalysis
		Recommendation Recommendation
		Assumptions    []string
		Chart          []chartSeries
	}{report, AnalyzeAll(report), AnalyzeScenarios(report), assumptions, chart}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
