package calculation

import (
	"sort"

	"github.com/rpgo/lifepath/internal/domain"
	"github.com/shopspring/decimal"
)

// Effect is one concrete change a milestone makes to the run state. The set of
// implementations is closed; runState.apply switches over all of them.
type Effect interface {
	effect()
}

// AssetDelta adds an asset
type AssetDelta struct {
	Asset domain.Asset
}

// LiabilityDelta adds a liability. Proceeds, when positive, are credited to the
// year's cash flow as financing.
type LiabilityDelta struct {
	Liability domain.Liability
	Proceeds  decimal.Decimal
}

// ExpenditureOp selects what an ExpenditureDelta does
type ExpenditureOp int

const (
	// ExpenditureAdd starts a recurring stream
	ExpenditureAdd ExpenditureOp = iota
	// ExpenditureScale multiplies the variable streams of Categories from this year on
	ExpenditureScale
	// ExpenditureOneTime charges Stream.AnnualAmount to Stream.Type in the trigger year only
	ExpenditureOneTime
)

// ExpenditureDelta adds, rescales or charges expenditure. Fixed streams are costs
// priced by the milestone itself (property tax, tuition) and are never rescaled.
type ExpenditureDelta struct {
	Op         ExpenditureOp
	Stream     domain.Expenditure
	Fixed      bool
	Categories []domain.ExpenseCategory
	Factor     decimal.Decimal
}

// IncomeOp selects what an IncomeDelta does
type IncomeOp int

const (
	// IncomeAdd starts a stream
	IncomeAdd IncomeOp = iota
	// IncomeEndPrimary ends every primary stream the year before the trigger
	IncomeEndPrimary
	// IncomePausePrimary suspends primary streams for Years starting at the trigger
	IncomePausePrimary
)

// IncomeDelta adds, ends or pauses income
type IncomeDelta struct {
	Op     IncomeOp
	Stream domain.Income
	Years  int
}

// CashOutlay is a capital payment (a down payment) out of the year's cash flow
type CashOutlay struct {
	Amount decimal.Decimal
	Label  string
}

// StatusChange switches the filing status from the trigger year on
type StatusChange struct {
	FilingStatus domain.FilingStatus
}

func (AssetDelta) effect()       {}
func (LiabilityDelta) effect()   {}
func (ExpenditureDelta) effect() {}
func (IncomeDelta) effect()      {}
func (CashOutlay) effect()       {}
func (StatusChange) effect()     {}

// ScheduledEffect is an effect tagged with the year it activates and its milestone
type ScheduledEffect struct {
	Year   int
	Source domain.MilestoneRef
	Effect Effect
}

// Schedule holds expanded milestone effects indexed by activation year
type Schedule struct {
	byYear        map[int][]ScheduledEffect
	Applied       []domain.MilestoneRef
	Deferred      []domain.MilestoneRef
	EducationPath []domain.EducationPath
	JobPath       []domain.JobPathEntry
	MilitaryPath  []domain.MilitaryPath
	Diagnostics   []domain.Diagnostic
}

// EffectsFor returns the effects activating in year, in application order
func (s *Schedule) EffectsFor(year int) []ScheduledEffect {
	return s.byYear[year]
}

// Len returns the total number of scheduled effects
func (s *Schedule) Len() int {
	n := 0
	for _, effects := range s.byYear {
		n += len(effects)
	}
	return n
}

func refOf(m domain.Milestone) domain.MilestoneRef {
	return domain.MilestoneRef{Kind: m.Kind(), Label: m.Label(), Year: m.TriggerYear()}
}

// ScheduleMilestones orders milestones by trigger year (input order breaks ties),
// expands each into effects and indexes them by activation year.
//
// Milestones at or beyond the horizon are recorded as deferred and never expanded.
// Invalid or unrecognised milestones are skipped with a diagnostic. Effects an
// applied milestone schedules past the horizon are dropped.
func ScheduleMilestones(milestones []domain.Milestone, horizon int, x *Expander, logger Logger) *Schedule {
	rec := newRecorder(logger)
	sched := &Schedule{byYear: make(map[int][]ScheduledEffect)}

	ordered := append([]domain.Milestone(nil), milestones...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TriggerYear() < ordered[j].TriggerYear()
	})

	for _, m := range ordered {
		ref := refOf(m)
		if err := m.Validate(); err != nil {
			rec.warn("milestone "+ref.Label, yearPtr(ref.Year), "skipped: %v", err)
			continue
		}
		if ref.Year >= horizon {
			rec.info("milestone "+ref.Label, yearPtr(ref.Year), "year %d is at or beyond the %d-year horizon; not applied", ref.Year, horizon)
			sched.Deferred = append(sched.Deferred, ref)
			continue
		}

		exp, err := x.Expand(m)
		if err != nil {
			rec.warn("milestone "+ref.Label, yearPtr(ref.Year), "skipped: %v", err)
			continue
		}
		for _, n := range exp.Notes {
			rec.warn("milestone "+ref.Label, yearPtr(ref.Year), "%s", n)
		}

		for _, se := range exp.Effects {
			if se.Year < 0 || se.Year >= horizon {
				continue
			}
			se.Source = ref
			sched.byYear[se.Year] = append(sched.byYear[se.Year], se)
		}
		sched.Applied = append(sched.Applied, ref)
		if exp.Education != nil {
			sched.EducationPath = append(sched.EducationPath, *exp.Education)
		}
		for _, j := range exp.Jobs {
			if j.Year < horizon {
				sched.JobPath = append(sched.JobPath, j)
			}
		}
		if exp.Military != nil {
			sched.MilitaryPath = append(sched.MilitaryPath, *exp.Military)
		}
	}

	// Effects were appended in milestone order, which is already stable per year.
	sched.Diagnostics = rec.diags
	return sched
}
