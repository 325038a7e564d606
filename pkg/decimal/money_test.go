package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGrowthFactor(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		years int
		want  string
	}{
		{"zero years", 0.05, 0, "1"},
		{"negative years", 0.05, -3, "1"},
		{"two years", 0.10, 2, "1.21"},
		{"depreciation", -0.5, 2, "0.25"},
		{"total loss floors at zero", -1.0, 3, "0"},
		{"beyond total loss floors at zero", -1.5, 1, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrowthFactor(stddec.NewFromFloat(tt.rate), tt.years)
			assert.True(t, got.Equal(stddec.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestCompound(t *testing.T) {
	got := Compound(stddec.NewFromInt(50000), stddec.NewFromFloat(0.03), 1)
	assert.Equal(t, "51500.00", got.StringFixed(2))
}

func TestFloorZeroAndClamp(t *testing.T) {
	assert.True(t, FloorZero(stddec.NewFromInt(-5)).IsZero())
	assert.True(t, FloorZero(stddec.NewFromInt(5)).Equal(stddec.NewFromInt(5)))

	lo, hi := stddec.Zero, One
	assert.True(t, Clamp(stddec.NewFromFloat(1.5), lo, hi).Equal(One))
	assert.True(t, Clamp(stddec.NewFromFloat(-0.5), lo, hi).IsZero())
	assert.True(t, Clamp(stddec.NewFromFloat(0.5), lo, hi).Equal(stddec.NewFromFloat(0.5)))
}

func TestSafeDiv(t *testing.T) {
	assert.True(t, SafeDiv(stddec.NewFromInt(10), stddec.Zero).IsZero())
	assert.Equal(t, "2.5", SafeDiv(stddec.NewFromInt(5), stddec.NewFromInt(2)).String())
}

func TestRoundingHelpers(t *testing.T) {
	assert.Equal(t, "2.35", Cents(stddec.RequireFromString("2.345")).StringFixed(2))
	assert.Equal(t, "0.1235", RateRound(stddec.RequireFromString("0.12345")).String())
}

func TestPercentSumAndOr(t *testing.T) {
	assert.Equal(t, "0.1", Percent(stddec.NewFromInt(10)).String())
	assert.Equal(t, "6", Sum(stddec.NewFromInt(1), stddec.NewFromInt(2), stddec.NewFromInt(3)).String())
	assert.True(t, Sum().IsZero())

	def := stddec.NewFromInt(7)
	assert.True(t, Or(nil, def).Equal(def))
	assert.True(t, Or(Ptr(stddec.Zero), def).IsZero(), "explicit zero must not fall back to default")
}

func TestPeriodConversions(t *testing.T) {
	assert.Equal(t, "1200", Annual(stddec.NewFromInt(100)).String())
	assert.Equal(t, "100", Monthly(stddec.NewFromInt(1200)).String())
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, NearlyEqual(stddec.NewFromFloat(1.005), stddec.NewFromFloat(1.0), CentsTolerance))
	assert.False(t, NearlyEqual(stddec.NewFromFloat(1.02), stddec.NewFromFloat(1.0), CentsTolerance))
}
