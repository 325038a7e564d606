package calculation

import (
	"sort"
	"strings"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// CareerProvider looks up salary percentiles by occupation
type CareerProvider interface {
	Lookup(occupation string) (domain.CareerRecord, bool)
}

// CareerTable is a case-insensitive in-memory CareerProvider
type CareerTable struct {
	records map[string]domain.CareerRecord
}

// NewCareerTable indexes records by occupation. Later records replace earlier ones.
func NewCareerTable(records ...domain.CareerRecord) *CareerTable {
	t := &CareerTable{records: make(map[string]domain.CareerRecord, len(records))}
	for _, r := range records {
		t.records[normalizeOccupation(r.Occupation)] = r
	}
	return t
}

// Lookup implements CareerProvider
func (t *CareerTable) Lookup(occupation string) (domain.CareerRecord, bool) {
	r, ok := t.records[normalizeOccupation(occupation)]
	return r, ok
}

// With returns a copy of the table with records added. Records replace entries of the same occupation.
func (t *CareerTable) With(records ...domain.CareerRecord) *CareerTable {
	out := &CareerTable{records: make(map[string]domain.CareerRecord, len(t.records)+len(records))}
	for k, r := range t.records {
		out.records[k] = r
	}
	for _, r := range records {
		out.records[normalizeOccupation(r.Occupation)] = r
	}
	return out
}

// Occupations lists the table's occupations in sorted order
func (t *CareerTable) Occupations() []string {
	out := make([]string, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r.Occupation)
	}
	sort.Strings(out)
	return out
}

func normalizeOccupation(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func career(name string, p10, p25, p50, p75, p90 int64) domain.CareerRecord {
	return domain.CareerRecord{
		Occupation: name,
		Percentiles: domain.SalaryPercentiles{
			P10: decimal.NewFromInt(p10),
			P25: decimal.NewFromInt(p25),
			P50: decimal.NewFromInt(p50),
			P75: decimal.NewFromInt(p75),
			P90: decimal.NewFromInt(p90),
		},
	}
}

// DefaultCareerTable returns a small built-in table of national annual wages
func DefaultCareerTable() *CareerTable {
	return NewCareerTable(
		career("Software Developer", 79850, 101200, 133080, 167540, 208620),
		career("Registered Nurse", 66030, 75480, 93600, 111120, 135320),
		career("Elementary School Teacher", 48340, 53630, 63680, 79600, 100480),
		career("Accountant", 54520, 64130, 81680, 105830, 137330),
		career("Electrician", 40320, 49610, 61590, 81280, 106030),
		career("Mechanical Engineer", 68810, 81920, 102320, 127880, 161240),
		career("Retail Salesperson", 25190, 28470, 33900, 40160, 50040),
		career("Physician", 88050, 168690, 239200, 239200, 239200),
		career("Lawyer", 73660, 97070, 145760, 208980, 239200),
		career("Data Scientist", 63650, 80010, 112590, 147390, 194410),
		career("Pharmacist", 103530, 125270, 137480, 155610, 171490),
		career("Police Officer", 47070, 56640, 74910, 96030, 116200),
	)
}
