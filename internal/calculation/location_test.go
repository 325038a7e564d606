package calculation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	mu      sync.Mutex
	calls   int
	records map[string]domain.LocationRecord
	err     error
}

func (p *countingProvider) Lookup(ctx context.Context, postalCode string) (domain.LocationRecord, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return domain.LocationRecord{}, false, p.err
	}
	r, ok := p.records[postalCode]
	return r, ok, nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func austin() domain.LocationRecord {
	return domain.LocationRecord{
		PostalCode:             "78701",
		City:                   "Austin",
		State:                  "TX",
		IncomeAdjustmentFactor: money.Ptr(decimal.NewFromFloat(1.1)),
		CostOfLivingIndex:      money.Ptr(decimal.NewFromInt(120)),
		MonthlyBaselines: map[domain.ExpenseCategory]decimal.Decimal{
			domain.CategoryHousing: decimal.NewFromInt(2000),
		},
	}
}

func TestResolveLocation_NoData(t *testing.T) {
	tables := DefaultRateTables()
	loc, diags := ResolveLocation(context.Background(), nil, &domain.Bundle{}, tables)

	assert.Empty(t, diags, "absent location data is a normal state")
	assert.Equal(t, LocationSourceDefault, loc.Source)
	assert.True(t, loc.IncomeAdjustmentFactor.Equal(money.One))
	assert.True(t, loc.ExpenseFactor.Equal(money.One))
	assert.Len(t, loc.AnnualBaselines, len(domain.LivingCategories))
	assert.True(t, loc.AnnualBaselines[domain.CategoryHousing].Equal(decimal.NewFromInt(21600)))
}

func TestResolveLocation_InlineRecord(t *testing.T) {
	rec := austin()
	loc, diags := ResolveLocation(context.Background(), nil, &domain.Bundle{LocationData: &rec}, DefaultRateTables())

	assert.Empty(t, diags)
	assert.Equal(t, LocationSourceRecord, loc.Source)
	assert.Equal(t, "TX", loc.State)
	assert.True(t, loc.IncomeAdjustmentFactor.Equal(decimal.NewFromFloat(1.1)))
	assert.True(t, loc.ExpenseFactor.Equal(decimal.NewFromFloat(1.2)))
	// Record baselines are used as given; defaults are scaled by the index
	assert.True(t, loc.AnnualBaselines[domain.CategoryHousing].Equal(decimal.NewFromInt(24000)))
	assert.True(t, loc.AnnualBaselines[domain.CategoryFood].Equal(decimal.NewFromInt(7200)))
}

func TestResolveLocation_Provider(t *testing.T) {
	provider := NewStaticLocationProvider(austin())
	tables := DefaultRateTables()

	loc, diags := ResolveLocation(context.Background(), provider, &domain.Bundle{PostalCode: " 78701 "}, tables)
	assert.Empty(t, diags)
	assert.Equal(t, LocationSourceProvider, loc.Source)
	assert.Equal(t, "Austin", loc.City)

	loc, diags = ResolveLocation(context.Background(), provider, &domain.Bundle{PostalCode: "00000"}, tables)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityInfo, diags[0].Severity)
	assert.Equal(t, LocationSourceDefault, loc.Source)

	failing := &countingProvider{err: errors.New("backend down")}
	loc, diags = ResolveLocation(context.Background(), failing, &domain.Bundle{PostalCode: "78701"}, tables)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "backend down")
	assert.True(t, loc.IncomeAdjustmentFactor.Equal(money.One))
}

func TestResolveLocation_CostOfLivingFactorOverride(t *testing.T) {
	rec := austin()
	b := &domain.Bundle{LocationData: &rec, CostOfLivingFactor: money.Ptr(decimal.NewFromFloat(0.9))}
	loc, _ := ResolveLocation(context.Background(), nil, b, DefaultRateTables())

	assert.True(t, loc.ExpenseFactor.Equal(decimal.NewFromFloat(0.9)))
	assert.True(t, loc.IncomeAdjustmentFactor.Equal(decimal.NewFromFloat(1.1)))
}

func TestCachedLocationProvider(t *testing.T) {
	next := &countingProvider{records: map[string]domain.LocationRecord{"78701": austin()}}
	clock := &testClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	p := NewCachedLocationProvider(next, 16, time.Hour, clock)
	ctx := context.Background()

	rec, ok, err := p.Lookup(ctx, "78701")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Austin", rec.City)

	_, _, _ = p.Lookup(ctx, "78701")
	_, ok, _ = p.Lookup(ctx, "99999")
	assert.False(t, ok)
	_, _, _ = p.Lookup(ctx, "99999")
	assert.Equal(t, 2, next.calls, "hits and misses are both cached")

	clock.now = clock.now.Add(2 * time.Hour)
	_, _, _ = p.Lookup(ctx, "78701")
	assert.Equal(t, 3, next.calls, "expired entries are fetched again")
}

func TestCachedLocationProvider_ErrorsNotCached(t *testing.T) {
	next := &countingProvider{err: errors.New("timeout")}
	p := NewCachedLocationProvider(next, 16, time.Hour, &testClock{})

	_, _, err := p.Lookup(context.Background(), "78701")
	require.Error(t, err)
	_, _, err = p.Lookup(context.Background(), "78701")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestStaticLocationProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewStaticLocationProvider(austin()).Lookup(ctx, "78701")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCareerTable(t *testing.T) {
	table := DefaultCareerTable()

	rec, ok := table.Lookup("  software   DEVELOPER ")
	require.True(t, ok)
	assert.True(t, rec.Percentiles.At(50).Equal(decimal.NewFromInt(133080)))
	assert.True(t, rec.Percentiles.At(90).Equal(decimal.NewFromInt(208620)))
	assert.True(t, rec.Percentiles.At(33).Equal(rec.Percentiles.P50), "unknown percentile falls back to the median")

	_, ok = table.Lookup("astronaut")
	assert.False(t, ok)

	custom := NewCareerTable(domain.CareerRecord{Occupation: "Astronaut"})
	assert.Equal(t, []string{"Astronaut"}, custom.Occupations())
}

func TestCareerTable_With(t *testing.T) {
	base := DefaultCareerTable()
	merged := base.With(
		domain.CareerRecord{Occupation: "Astronaut"},
		career("software developer", 1, 2, 3, 4, 5),
	)

	_, ok := merged.Lookup("Astronaut")
	assert.True(t, ok)
	rec, ok := merged.Lookup("Software Developer")
	require.True(t, ok)
	assert.True(t, rec.Percentiles.P50.Equal(decimal.NewFromInt(3)))

	_, ok = base.Lookup("Astronaut")
	assert.False(t, ok, "the original table is unchanged")
	assert.Len(t, merged.Occupations(), len(base.Occupations())+1)
}
