package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// monthlyPrefix marks location columns holding a category's monthly baseline,
// e.g. monthly_housing
const monthlyPrefix = "monthly_"

type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func readCSV(r io.Reader, required ...string) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	t := &csvTable{columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	t.rows, err = cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *csvTable) get(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *csvTable) decimal(row []string, col string) (*decimal.Decimal, error) {
	s := t.get(row, col)
	if s == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col, err)
	}
	return &v, nil
}

// LoadLocationsCSV reads cost-of-living records. Required column: postal_code.
// Optional: city, state, income_adjustment_factor, cost_of_living_index and one
// monthly_<category> column per living category.
func LoadLocationsCSV(filename string) ([]domain.LocationRecord, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open location table %s: %w", filename, err)
	}
	defer f.Close()

	records, err := ReadLocationsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("location table %s: %w", filename, err)
	}
	return records, nil
}

// ReadLocationsCSV parses location records from r
func ReadLocationsCSV(r io.Reader) ([]domain.LocationRecord, error) {
	t, err := readCSV(r, "postal_code")
	if err != nil {
		return nil, err
	}

	records := make([]domain.LocationRecord, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		rec := domain.LocationRecord{
			PostalCode: t.get(row, "postal_code"),
			City:       t.get(row, "city"),
			State:      strings.ToUpper(t.get(row, "state")),
		}
		if rec.PostalCode == "" {
			return nil, fmt.Errorf("line %d: postal_code is empty", line)
		}
		if rec.IncomeAdjustmentFactor, err = t.decimal(row, "income_adjustment_factor"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.CostOfLivingIndex, err = t.decimal(row, "cost_of_living_index"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for _, c := range domain.LivingCategories {
			v, err := t.decimal(row, monthlyPrefix+string(c))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if v == nil {
				continue
			}
			if rec.MonthlyBaselines == nil {
				rec.MonthlyBaselines = make(map[domain.ExpenseCategory]decimal.Decimal)
			}
			rec.MonthlyBaselines[c] = *v
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadCareersCSV reads occupation salary records with columns occupation,
// p10, p25, p50, p75, p90 and an optional growth_rate
func LoadCareersCSV(filename string) ([]domain.CareerRecord, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open career table %s: %w", filename, err)
	}
	defer f.Close()

	records, err := ReadCareersCSV(f)
	if err != nil {
		return nil, fmt.Errorf("career table %s: %w", filename, err)
	}
	return records, nil
}

// ReadCareersCSV parses career records from r
func ReadCareersCSV(r io.Reader) ([]domain.CareerRecord, error) {
	percentiles := []string{"p10", "p25", "p50", "p75", "p90"}
	t, err := readCSV(r, append([]string{"occupation"}, percentiles...)...)
	if err != nil {
		return nil, err
	}

	records := make([]domain.CareerRecord, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		rec := domain.CareerRecord{Occupation: t.get(row, "occupation")}
		if rec.Occupation == "" {
			return nil, fmt.Errorf("line %d: occupation is empty", line)
		}

		values := make([]decimal.Decimal, len(percentiles))
		for i, col := range percentiles {
			v, err := t.decimal(row, col)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if v == nil || v.IsNegative() {
				return nil, fmt.Errorf("line %d: %s must be a non-negative amount", line, col)
			}
			values[i] = *v
		}
		rec.Percentiles = domain.SalaryPercentiles{P10: values[0], P25: values[1], P50: values[2], P75: values[3], P90: values[4]}

		if rec.GrowthRate, err = t.decimal(row, "growth_rate"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
