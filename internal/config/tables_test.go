package config

import (
	"strings"
	"testing"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLocationsCSV(t *testing.T) {
	input := "# cost of living by postal code\n" +
		"postal_code,city,state,income_adjustment_factor,cost_of_living_index,monthly_housing,monthly_food\n" +
		"78701,Austin,tx,1.05,110,1900,520\n" +
		"10001, New York, NY, 1.3, 187, , 750\n" +
		"99501,Anchorage,AK,,,,\n"

	recs, err := ReadLocationsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "78701", recs[0].PostalCode)
	assert.Equal(t, "TX", recs[0].State)
	require.NotNil(t, recs[0].CostOfLivingIndex)
	assert.True(t, recs[0].CostOfLivingIndex.Equal(decimal.NewFromInt(110)))
	assert.True(t, recs[0].MonthlyBaselines[domain.CategoryHousing].Equal(decimal.NewFromInt(1900)))

	assert.Equal(t, "New York", recs[1].City)
	_, hasHousing := recs[1].MonthlyBaselines[domain.CategoryHousing]
	assert.False(t, hasHousing, "blank cells are absent, not zero")
	assert.True(t, recs[1].MonthlyBaselines[domain.CategoryFood].Equal(decimal.NewFromInt(750)))

	assert.Nil(t, recs[2].IncomeAdjustmentFactor)
	assert.Nil(t, recs[2].MonthlyBaselines)
}

func TestReadLocationsCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "missing header"},
		{"no postal code column", "city,state\nAustin,TX\n", "postal_code"},
		{"empty postal code", "postal_code,city\n,Austin\n", "line 2"},
		{"bad number", "postal_code,cost_of_living_index\n78701,high\n", "cost_of_living_index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLocationsCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadCareersCSV(t *testing.T) {
	input := "occupation,p10,p25,p50,p75,p90,growth_rate\n" +
		"Data Scientist,61070,80360,108020,141330,184090,0.04\n" +
		"Barista,22000,25000,29000,33000,38000,\n"

	recs, err := ReadCareersCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Data Scientist", recs[0].Occupation)
	assert.True(t, recs[0].Percentiles.At(75).Equal(decimal.NewFromInt(141330)))
	require.NotNil(t, recs[0].GrowthRate)
	assert.True(t, recs[0].GrowthRate.Equal(decimal.NewFromFloat(0.04)))
	assert.Nil(t, recs[1].GrowthRate)
}

func TestReadCareersCSV_Errors(t *testing.T) {
	_, err := ReadCareersCSV(strings.NewReader("occupation,p10,p50\nX,1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p25")

	_, err = ReadCareersCSV(strings.NewReader("occupation,p10,p25,p50,p75,p90\nX,1,2,,4,5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p50")
}

func TestLoadCSV_FileErrors(t *testing.T) {
	_, err := LoadLocationsCSV("missing.csv")
	assert.Error(t, err)
	_, err = LoadCareersCSV("missing.csv")
	assert.Error(t, err)

	path := writeTemp(t, "careers.csv", "occupation,p10,p25,p50,p75,p90\nPilot,1,2,3,4,5\n")
	recs, err := LoadCareersCSV(path)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
