package calculation

import (
	"fmt"

	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Expansion is everything one milestone contributes to a run
type Expansion struct {
	Effects   []ScheduledEffect
	Education *domain.EducationPath
	Jobs      []domain.JobPathEntry
	Military  *domain.MilitaryPath
	Notes     []string
}

func (e *Expansion) add(year int, eff Effect) {
	e.Effects = append(e.Effects, ScheduledEffect{Year: year, Effect: eff})
}

// Expander turns milestones into effects using the run's policy defaults
type Expander struct {
	policy  Policy
	careers CareerProvider
}

// NewExpander creates an expander. A nil career provider disables occupation lookups.
func NewExpander(p Policy, careers CareerProvider) *Expander {
	return &Expander{policy: p, careers: careers}
}

// Expand dispatches on the milestone variant
func (x *Expander) Expand(m domain.Milestone) (Expansion, error) {
	switch v := m.(type) {
	case domain.Marriage:
		return x.expandMarriage(v), nil
	case domain.HomePurchase:
		return x.expandHomePurchase(v), nil
	case domain.CarPurchase:
		return x.expandCarPurchase(v), nil
	case domain.Child:
		return x.expandChild(v), nil
	case domain.Education:
		return x.expandEducation(v), nil
	case domain.Military:
		return x.expandMilitary(v), nil
	case domain.JobChange:
		return x.expandJobChange(v)
	}
	return Expansion{}, fmt.Errorf("unrecognized milestone type %q", m.Kind())
}

func (x *Expander) defaults() MilestoneDefaults { return x.policy.Tables.Milestones }

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func span(start, years int) (*int, *int) {
	end := start + years - 1
	return domain.Years(start), domain.Years(end)
}

func oneTime(category domain.ExpenseCategory, name string, amount decimal.Decimal) ExpenditureDelta {
	return ExpenditureDelta{Op: ExpenditureOneTime, Stream: domain.Expenditure{Type: category, Name: name, AnnualAmount: amount}}
}

func fixedStream(e domain.Expenditure) ExpenditureDelta {
	if e.LocationAdjusted == nil {
		off := false
		e.LocationAdjusted = &off
	}
	return ExpenditureDelta{Op: ExpenditureAdd, Stream: e, Fixed: true}
}

func (x *Expander) expandMarriage(m domain.Marriage) Expansion {
	var exp Expansion
	y := m.Year
	def := x.defaults().Marriage

	if mult := money.Or(m.LivingCostMultiplier, def.LivingCostMultiplier); !mult.Equal(money.One) {
		exp.add(y, ExpenditureDelta{Op: ExpenditureScale, Categories: domain.LivingCategories, Factor: mult})
	}
	exp.add(y, StatusChange{FilingStatus: domain.FilingMarried})

	if m.SpouseIncome != nil && m.SpouseIncome.IsPositive() {
		exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
			Type:         domain.IncomeSpouseSalary,
			Name:         m.Label() + " spouse income",
			AnnualAmount: *m.SpouseIncome,
			GrowthRate:   money.Or(m.SpouseIncomeGrowth, def.SpouseIncomeGrowth),
			StartYear:    domain.Years(y),
		}})
	}
	for _, a := range m.SpouseAssets {
		exp.add(y, AssetDelta{Asset: a})
	}
	for _, l := range m.SpouseLiabilities {
		exp.add(y, LiabilityDelta{Liability: l})
	}
	if m.WeddingCost != nil && m.WeddingCost.IsPositive() {
		exp.add(y, oneTime(domain.CategoryOther, m.Label()+" wedding", *m.WeddingCost))
	}
	return exp
}

func (x *Expander) expandHomePurchase(m domain.HomePurchase) Expansion {
	var exp Expansion
	y := m.Year
	def := x.defaults().Home

	down := m.HomePrice.Mul(money.Or(m.DownPaymentPercent, def.DownPaymentPercent))
	if m.DownPayment != nil {
		down = *m.DownPayment
	}
	down = money.Clamp(down, decimal.Zero, m.HomePrice)
	appreciation := money.Or(m.AppreciationRate, def.AppreciationRate)

	// Rent is reduced before the home's own carrying costs are added.
	reduction := money.Or(m.RentReduction, def.RentReduction)
	if reduction.IsPositive() {
		exp.add(y, ExpenditureDelta{
			Op:         ExpenditureScale,
			Categories: []domain.ExpenseCategory{domain.CategoryHousing},
			Factor:     money.One.Sub(reduction),
		})
	}

	exp.add(y, AssetDelta{Asset: domain.Asset{
		Type:         domain.AssetHome,
		Name:         m.Label() + " home",
		InitialValue: m.HomePrice,
		GrowthRate:   appreciation,
	}})
	if principal := m.HomePrice.Sub(down); principal.IsPositive() {
		exp.add(y, LiabilityDelta{Liability: domain.Liability{
			Type:           domain.LiabilityMortgage,
			Name:           m.Label() + " mortgage",
			InitialBalance: principal,
			InterestRate:   money.Or(m.MortgageRate, def.MortgageRate),
			TermYears:      intOr(m.TermYears, def.TermYears),
		}})
	}
	if down.IsPositive() {
		exp.add(y, CashOutlay{Amount: down, Label: m.Label() + " down payment"})
	}

	carryRate := money.Or(m.PropertyTaxRate, def.PropertyTaxRate).
		Add(money.Or(m.InsuranceRate, def.InsuranceRate)).
		Add(money.Or(m.MaintenanceRate, def.MaintenanceRate))
	if carry := m.HomePrice.Mul(carryRate); carry.IsPositive() {
		exp.add(y, fixedStream(domain.Expenditure{
			Type:          domain.CategoryHousing,
			Name:          m.Label() + " property tax, insurance and upkeep",
			AnnualAmount:  carry,
			InflationRate: appreciation,
			StartYear:     domain.Years(y),
		}))
	}
	return exp
}

func (x *Expander) expandCarPurchase(m domain.CarPurchase) Expansion {
	var exp Expansion
	y := m.Year
	def := x.defaults().Car

	down := m.CarPrice.Mul(def.DownPaymentPercent)
	if m.DownPayment != nil {
		down = *m.DownPayment
	}
	down = money.Clamp(down, decimal.Zero, m.CarPrice)

	exp.add(y, AssetDelta{Asset: domain.Asset{
		Type:         domain.AssetVehicle,
		Name:         m.Label() + " vehicle",
		InitialValue: m.CarPrice,
		GrowthRate:   money.Or(m.DepreciationRate, def.DepreciationRate),
	}})
	if principal := m.CarPrice.Sub(down); principal.IsPositive() {
		exp.add(y, LiabilityDelta{Liability: domain.Liability{
			Type:           domain.LiabilityCarLoan,
			Name:           m.Label() + " car loan",
			InitialBalance: principal,
			InterestRate:   money.Or(m.LoanRate, def.LoanRate),
			TermYears:      intOr(m.TermYears, def.TermYears),
		}})
	}
	if down.IsPositive() {
		exp.add(y, CashOutlay{Amount: down, Label: m.Label() + " down payment"})
	}
	if m.AnnualOperatingCost != nil && m.AnnualOperatingCost.IsPositive() {
		exp.add(y, fixedStream(domain.Expenditure{
			Type:          domain.CategoryTransportation,
			Name:          m.Label() + " operating cost",
			AnnualAmount:  *m.AnnualOperatingCost,
			InflationRate: x.policy.Tables.InflationFor(domain.CategoryTransportation),
			StartYear:     domain.Years(y),
		}))
	}
	return exp
}

func (x *Expander) expandChild(m domain.Child) Expansion {
	var exp Expansion
	y := m.Year
	def := x.defaults().Child
	count := decimal.NewFromInt(int64(intOr(m.Count, 1)))

	if years := intOr(m.ChildcareYears, def.ChildcareYears); years > 0 {
		if cost := money.Or(m.ChildcareCost, def.ChildcareCost).Mul(count); cost.IsPositive() {
			start, end := span(y, years)
			exp.add(y, fixedStream(domain.Expenditure{
				Type:          domain.CategoryChildcare,
				Name:          m.Label() + " childcare",
				AnnualAmount:  cost,
				InflationRate: x.policy.Tables.InflationFor(domain.CategoryChildcare),
				StartYear:     start,
				EndYear:       end,
			}))
		}
	}

	years := intOr(m.DependentYears, def.DependentYears)
	total := money.Or(m.AnnualCost, def.AnnualCost).Mul(count)
	if years <= 0 || !total.IsPositive() {
		return exp
	}
	start, end := span(y, years)
	for _, c := range domain.LivingCategories {
		share, ok := def.CostSplit[c]
		if !ok || !share.IsPositive() {
			continue
		}
		exp.add(y, ExpenditureDelta{Op: ExpenditureAdd, Fixed: true, Stream: domain.Expenditure{
			Type:          c,
			Name:          fmt.Sprintf("%s %s", m.Label(), c),
			AnnualAmount:  total.Mul(share),
			InflationRate: x.policy.Tables.InflationFor(c),
			StartYear:     start,
			EndYear:       end,
		}})
	}
	return exp
}

func (x *Expander) expandEducation(m domain.Education) Expansion {
	var exp Expansion
	y, n := m.Year, m.Years
	graduation := y + n
	def := x.defaults().Education

	level := m.Level
	if level == "" {
		level = domain.EducationCollege
	}
	start, end := span(y, n)

	if m.AnnualTuition.IsPositive() {
		exp.add(y, fixedStream(domain.Expenditure{
			Type:          domain.CategoryEducation,
			Name:          m.Label() + " tuition",
			AnnualAmount:  m.AnnualTuition,
			InflationRate: money.Or(m.TuitionInflation, def.TuitionInflation),
			StartYear:     start,
			EndYear:       end,
		}))
	}
	if m.AnnualLivingCost != nil && m.AnnualLivingCost.IsPositive() {
		exp.add(y, fixedStream(domain.Expenditure{
			Type:          domain.CategoryEducation,
			Name:          m.Label() + " living cost",
			AnnualAmount:  *m.AnnualLivingCost,
			InflationRate: x.policy.Tables.InflationFor(domain.CategoryOther),
			StartYear:     start,
			EndYear:       end,
		}))
	}

	borrowed := decimal.Zero
	if m.AnnualLoanAmount != nil && m.AnnualLoanAmount.IsPositive() {
		loanType, rate := domain.LiabilityEducationLoan, def.LoanRate
		if level == domain.EducationGraduate {
			loanType, rate = domain.LiabilityGraduateLoan, def.GraduateLoanRate
		}
		rate = money.Or(m.LoanRate, rate)
		term := intOr(m.LoanTermYears, def.LoanTermYears)
		// Each school year's disbursement stays deferred until graduation.
		for k := 0; k < n; k++ {
			exp.add(y+k, LiabilityDelta{
				Liability: domain.Liability{
					Type:           loanType,
					Name:           fmt.Sprintf("%s loan year %d", m.Label(), k+1),
					InitialBalance: *m.AnnualLoanAmount,
					InterestRate:   rate,
					TermYears:      term,
					DefermentYears: n - k,
					Subsidized:     m.Subsidized,
				},
				Proceeds: *m.AnnualLoanAmount,
			})
			borrowed = borrowed.Add(*m.AnnualLoanAmount)
		}
	}

	if m.WorkStatus == domain.WorkStatusNotWorking {
		exp.add(y, IncomeDelta{Op: IncomePausePrimary, Years: n})
	}
	if m.PartTimeIncome != nil && m.PartTimeIncome.IsPositive() {
		exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
			Type:         domain.IncomePartTime,
			Name:         m.Label() + " part-time work",
			AnnualAmount: *m.PartTimeIncome,
			StartYear:    start,
			EndYear:      end,
		}})
	}

	path := &domain.EducationPath{
		Level:          level,
		School:         m.School,
		StartYear:      y,
		GraduationYear: graduation,
		TotalBorrowed:  borrowed,
		WorkStatus:     m.WorkStatus,
		Occupation:     m.PostGraduationOccupation,
	}
	exp.Education = path

	salary, growth, source, ok := x.salaryFor(m.PostGraduationSalary, m.PostGraduationOccupation, m.SalaryPercentile, m.SalaryGrowth)
	if !ok {
		if m.PostGraduationOccupation != "" {
			exp.Notes = append(exp.Notes, fmt.Sprintf("no salary data for occupation %q; income after graduation is unchanged", m.PostGraduationOccupation))
		}
		return exp
	}
	path.StartingSalary = money.Ptr(salary)
	exp.add(graduation, IncomeDelta{Op: IncomeEndPrimary})
	exp.add(graduation, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
		Type:         domain.IncomeSalary,
		Name:         m.Label() + " graduate salary",
		AnnualAmount: salary,
		GrowthRate:   growth,
		StartYear:    domain.Years(graduation),
	}})
	exp.Jobs = append(exp.Jobs, domain.JobPathEntry{
		Year:       graduation,
		Source:     "education:" + source,
		Occupation: m.PostGraduationOccupation,
		Salary:     salary,
	})
	return exp
}

func (x *Expander) expandMilitary(m domain.Military) Expansion {
	var exp Expansion
	y, n := m.Year, m.Years
	growth := money.Or(m.PayGrowth, x.defaults().Military.PayGrowth)
	start, end := span(y, n)

	if m.WorkStatus == domain.WorkStatusNotWorking {
		exp.add(y, IncomeDelta{Op: IncomePausePrimary, Years: n})
	}
	exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
		Type:         domain.IncomeMilitary,
		Name:         m.Label() + " military pay",
		AnnualAmount: m.AnnualPay,
		GrowthRate:   growth,
		StartYear:    start,
		EndYear:      end,
	}})
	if m.HousingAllowance != nil && m.HousingAllowance.IsPositive() {
		exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
			Type:         domain.IncomeAllowance,
			Name:         m.Label() + " housing allowance",
			AnnualAmount: *m.HousingAllowance,
			GrowthRate:   growth,
			StartYear:    start,
			EndYear:      end,
			NonTaxable:   true,
		}})
	}
	if m.EnlistmentBonus != nil && m.EnlistmentBonus.IsPositive() {
		exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
			Type:         domain.IncomeBonus,
			Name:         m.Label() + " enlistment bonus",
			AnnualAmount: *m.EnlistmentBonus,
			StartYear:    domain.Years(y),
			EndYear:      domain.Years(y),
		}})
	}

	exp.Military = &domain.MilitaryPath{Branch: m.Branch, StartYear: y, EndYear: y + n - 1, AnnualPay: m.AnnualPay}
	return exp
}

func (x *Expander) expandJobChange(m domain.JobChange) (Expansion, error) {
	var exp Expansion
	y := m.Year

	salary, growth, source, ok := x.salaryFor(m.NewSalary, m.Occupation, m.SalaryPercentile, m.SalaryGrowth)
	if !ok {
		return exp, fmt.Errorf("no salary data for occupation %q", m.Occupation)
	}

	exp.add(y, IncomeDelta{Op: IncomeEndPrimary})
	exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
		Type:         domain.IncomeSalary,
		Name:         m.Label() + " salary",
		AnnualAmount: salary,
		GrowthRate:   growth,
		StartYear:    domain.Years(y),
		BonusPercent: m.BonusPercent,
	}})
	if m.SigningBonus != nil && m.SigningBonus.IsPositive() {
		exp.add(y, IncomeDelta{Op: IncomeAdd, Stream: domain.Income{
			Type:         domain.IncomeBonus,
			Name:         m.Label() + " signing bonus",
			AnnualAmount: *m.SigningBonus,
			StartYear:    domain.Years(y),
			EndYear:      domain.Years(y),
		}})
	}
	if m.RelocationCost != nil && m.RelocationCost.IsPositive() {
		exp.add(y, oneTime(domain.CategoryOther, m.Label()+" relocation", *m.RelocationCost))
	}
	exp.Jobs = append(exp.Jobs, domain.JobPathEntry{Year: y, Source: "job_change:" + source, Occupation: m.Occupation, Salary: salary})
	return exp, nil
}

// salaryFor resolves a salary from an explicit amount or the career table.
// It reports the source ("explicit" or "career") and false when neither is available.
func (x *Expander) salaryFor(explicit *decimal.Decimal, occupation string, percentile *int, growth *decimal.Decimal) (decimal.Decimal, decimal.Decimal, string, bool) {
	def := x.defaults().Education
	if explicit != nil {
		return *explicit, money.Or(growth, def.SalaryGrowth), "explicit", true
	}
	if occupation == "" || x.careers == nil {
		return decimal.Zero, decimal.Zero, "", false
	}
	rec, ok := x.careers.Lookup(occupation)
	if !ok {
		return decimal.Zero, decimal.Zero, "", false
	}
	g := money.Or(rec.GrowthRate, def.SalaryGrowth)
	g = money.Or(growth, g)
	return rec.Percentiles.At(intOr(percentile, def.SalaryPercentile)), g, "career", true
}
