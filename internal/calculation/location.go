package calculation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/lifepath/internal/cache"
	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Location sources reported in ResolvedLocation.Source
const (
	LocationSourceRecord   = "record"
	LocationSourceProvider = "provider"
	LocationSourceDefault  = "default"
)

// LocationProvider looks up cost-of-living records by postal code. A missing record
// is reported with ok=false, not an error.
type LocationProvider interface {
	Lookup(ctx context.Context, postalCode string) (domain.LocationRecord, bool, error)
}

// StaticLocationProvider serves records from an in-memory table
type StaticLocationProvider struct {
	records map[string]domain.LocationRecord
}

// NewStaticLocationProvider indexes records by postal code
func NewStaticLocationProvider(records ...domain.LocationRecord) *StaticLocationProvider {
	p := &StaticLocationProvider{records: make(map[string]domain.LocationRecord, len(records))}
	for _, r := range records {
		p.records[normalizePostalCode(r.PostalCode)] = r
	}
	return p
}

// Lookup implements LocationProvider
func (p *StaticLocationProvider) Lookup(ctx context.Context, postalCode string) (domain.LocationRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocationRecord{}, false, err
	}
	r, ok := p.records[normalizePostalCode(postalCode)]
	return r, ok, nil
}

// Len returns the number of records
func (p *StaticLocationProvider) Len() int { return len(p.records) }

type cachedLocation struct {
	record domain.LocationRecord
	found  bool
}

// CachedLocationProvider memoises another provider's answers, including misses, for a TTL
type CachedLocationProvider struct {
	next  LocationProvider
	cache *cache.LRUCache[cachedLocation]
}

// NewCachedLocationProvider wraps next with a TTL cache. A nil clock uses the system clock.
func NewCachedLocationProvider(next LocationProvider, size int, ttl time.Duration, clock cache.Clock) *CachedLocationProvider {
	return &CachedLocationProvider{next: next, cache: cache.NewLRUCache[cachedLocation](size, ttl, clock)}
}

// Lookup implements LocationProvider. Errors are not cached.
func (p *CachedLocationProvider) Lookup(ctx context.Context, postalCode string) (domain.LocationRecord, bool, error) {
	key := normalizePostalCode(postalCode)
	if hit, ok := p.cache.Get(key); ok {
		return hit.record, hit.found, nil
	}
	rec, found, err := p.next.Lookup(ctx, key)
	if err != nil {
		return domain.LocationRecord{}, false, err
	}
	p.cache.Set(key, cachedLocation{record: rec, found: found})
	return rec, found, nil
}

func normalizePostalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ResolveLocation turns the bundle's location inputs into the factors a run applies.
// An inline record wins over a provider lookup; no data at all yields neutral
// factors and the default baselines. Lookup failures degrade to the defaults with
// a diagnostic. An explicit cost_of_living_factor overrides the expense factor.
func ResolveLocation(ctx context.Context, provider LocationProvider, b *domain.Bundle, tables RateTables) (domain.ResolvedLocation, []domain.Diagnostic) {
	var diags []domain.Diagnostic
	var rec *domain.LocationRecord
	source := LocationSourceDefault

	switch {
	case b.LocationData != nil:
		rec = b.LocationData
		source = LocationSourceRecord
	case b.PostalCode != "" && provider != nil:
		found, ok, err := provider.Lookup(ctx, b.PostalCode)
		switch {
		case err != nil:
			diags = append(diags, domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Subject:  "location",
				Message:  fmt.Sprintf("lookup of postal code %s failed, using national defaults: %v", b.PostalCode, err),
			})
		case !ok:
			diags = append(diags, domain.Diagnostic{
				Severity: domain.SeverityInfo,
				Subject:  "location",
				Message:  fmt.Sprintf("no cost-of-living record for postal code %s, using national defaults", b.PostalCode),
			})
		default:
			rec = &found
			source = LocationSourceProvider
		}
	case b.PostalCode != "":
		diags = append(diags, domain.Diagnostic{
			Severity: domain.SeverityInfo,
			Subject:  "location",
			Message:  fmt.Sprintf("no location provider configured for postal code %s, using national defaults", b.PostalCode),
		})
	}

	res := domain.ResolvedLocation{
		Source:                 source,
		PostalCode:             b.PostalCode,
		IncomeAdjustmentFactor: money.One,
		ExpenseFactor:          money.One,
		AnnualBaselines:        make(map[domain.ExpenseCategory]decimal.Decimal, len(domain.LivingCategories)),
	}

	if rec != nil {
		if rec.PostalCode != "" {
			res.PostalCode = rec.PostalCode
		}
		res.City = rec.City
		res.State = rec.State
		if rec.IncomeAdjustmentFactor != nil && rec.IncomeAdjustmentFactor.IsPositive() {
			res.IncomeAdjustmentFactor = *rec.IncomeAdjustmentFactor
		}
		if rec.CostOfLivingIndex != nil && rec.CostOfLivingIndex.IsPositive() {
			res.ExpenseFactor = rec.CostOfLivingIndex.Div(money.Hundred)
		}
	}
	if b.CostOfLivingFactor != nil {
		res.ExpenseFactor = *b.CostOfLivingFactor
	}

	// Record baselines are already local prices; national defaults are scaled.
	for _, c := range domain.LivingCategories {
		if rec != nil {
			if monthly, ok := rec.MonthlyBaselines[c]; ok && !monthly.IsNegative() {
				res.AnnualBaselines[c] = money.Annual(monthly)
				continue
			}
		}
		res.AnnualBaselines[c] = money.Annual(tables.BaselineMonthly[c]).Mul(res.ExpenseFactor)
	}

	return res, diags
}
