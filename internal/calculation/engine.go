package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rpgo/lifepath/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine runs projections. It holds only read-only configuration, so
// one engine can serve concurrent runs; every run builds its own state.
type CalculationEngine struct {
	Tables         RateTables
	Locations      LocationProvider
	Careers        CareerProvider
	MaxConcurrency int // RunBatch parallelism; <= 0 means GOMAXPROCS
	Logger         Logger
}

// NewCalculationEngine creates an engine with the built-in tables and career data
// and no location provider
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Tables:  DefaultRateTables(),
		Careers: DefaultCareerTable(),
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// SetLocationProvider sets the postal-code lookup used when a bundle has no inline record
func (ce *CalculationEngine) SetLocationProvider(p LocationProvider) {
	ce.Locations = p
}

// SetCareerProvider sets the occupation table used by education and job changes
func (ce *CalculationEngine) SetCareerProvider(p CareerProvider) {
	ce.Careers = p
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// Run projects one bundle. An invalid bundle fails before the loop starts and
// returns an error wrapping domain.ErrInvalidBundle; element-level problems are
// skipped and reported in the result's diagnostics.
func (ce *CalculationEngine) Run(ctx context.Context, b *domain.Bundle) (*domain.ProjectionResult, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := ce.logger()
	rec := newRecorder(log)
	horizon := b.Horizon()
	log.Debugf("projecting %q: start age %d, %d years, %d milestones", b.Name, b.StartAge, horizon, len(b.Milestones))

	loc, locDiags := ResolveLocation(ctx, ce.Locations, b, ce.Tables)
	for _, d := range locDiags {
		log.Infof("%s: %s", d.Subject, d.Message)
	}
	rec.merge(locDiags)

	policy := ResolvePolicy(b, ce.Tables, loc)
	if policy.PersonalLoanTermYears <= 0 {
		return nil, fmt.Errorf("%w: personal loan term must be positive", domain.ErrInvalidBundle)
	}

	state := newRunState(b, policy, loc, rec)
	schedule := ScheduleMilestones(b.MilestoneList(), horizon, NewExpander(policy, ce.Careers), log)
	rec.merge(schedule.Diagnostics)

	p := &projector{
		startAge: b.StartAge,
		horizon:  horizon,
		state:    state,
		schedule: schedule,
		taxes:    NewComprehensiveTaxCalculator(policy),
		rec:      rec,
	}
	rows := p.run()

	result := Aggregate(rows)
	result.Name = b.Name
	result.Location = loc
	result.EducationPath = schedule.EducationPath
	result.JobPath = schedule.JobPath
	result.MilitaryPath = schedule.MilitaryPath
	result.AppliedMilestones = schedule.Applied
	result.DeferredMilestones = schedule.Deferred
	result.Diagnostics = rec.diags

	if n := len(result.NetWorth); n > 0 {
		log.Debugf("projection %q complete: final net worth %s", b.Name, result.NetWorth[n-1].StringFixed(2))
	}
	return result, nil
}

// RunBatch projects independent bundles concurrently. Results are returned in input
// order; the first failure cancels the remaining runs and is returned.
func (ce *CalculationEngine) RunBatch(ctx context.Context, bundles []*domain.Bundle) ([]*domain.ProjectionResult, error) {
	results := make([]*domain.ProjectionResult, len(bundles))

	limit := ce.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, b := range bundles {
		g.Go(func() error {
			res, err := ce.Run(gctx, b)
			if err != nil {
				name := fmt.Sprintf("#%d", i+1)
				if b != nil && b.Name != "" {
					name = b.Name
				}
				return fmt.Errorf("scenario %s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
