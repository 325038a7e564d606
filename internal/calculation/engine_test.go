package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func salary(amount, growth float64) domain.Income {
	return domain.Income{Type: domain.IncomeSalary, Name: "Salary", AnnualAmount: dec(amount), GrowthRate: dec(growth)}
}

func expense(c domain.ExpenseCategory, amount float64) domain.Expenditure {
	return domain.Expenditure{Type: c, Name: string(c), AnnualAmount: dec(amount)}
}

func milestones(ms ...domain.Milestone) []domain.MilestoneSpec {
	out := make([]domain.MilestoneSpec, len(ms))
	for i, m := range ms {
		out[i] = domain.MilestoneSpec{Milestone: m}
	}
	return out
}

// graduateBundle is a recent graduate with a salary and a student loan
func graduateBundle() *domain.Bundle {
	return &domain.Bundle{
		Name:           "graduate",
		StartAge:       22,
		YearsToProject: domain.Years(5),
		FilingStatus:   domain.FilingSingle,
		Incomes:        []domain.Income{salary(50000, 0.03)},
		Liabilities: []domain.Liability{{
			Type:           domain.LiabilityStudentLoan,
			Name:           "Student loan",
			InitialBalance: dec(20000),
			InterestRate:   dec(0.05),
			TermYears:      10,
		}},
	}
}

func run(t *testing.T, b *domain.Bundle) *domain.ProjectionResult {
	t.Helper()
	res, err := NewCalculationEngine().Run(context.Background(), b)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func fixed(series []decimal.Decimal) []string {
	out := make([]string, len(series))
	for i, v := range series {
		out[i] = v.StringFixed(2)
	}
	return out
}

func hasDiagnostic(r *domain.ProjectionResult, sev domain.Severity) bool {
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			return true
		}
	}
	return false
}

func TestRun_GraduateScenario(t *testing.T) {
	res := run(t, graduateBundle())

	assert.Equal(t, []int{22, 23, 24, 25, 26}, res.Ages)
	assert.Equal(t, "graduate", res.Name)
	assert.Equal(t, "18409.91", res.StudentLoan[0].StringFixed(2))
	assert.Equal(t, "18409.91", res.Liabilities[0].StringFixed(2))
	assert.True(t, res.NetWorth[4].GreaterThan(res.NetWorth[0]))
	assert.Equal(t, "50000.00", res.Income[0].StringFixed(2))
	assert.Equal(t, "51500.00", res.Income[1].StringFixed(2))
	assert.Equal(t, "2590.09", res.Debt[0].StringFixed(2), "loan payments are reported as debt expenses")
	assert.True(t, res.TotalTax[0].IsPositive())
	assert.True(t, res.Savings[0].IsPositive(), "the surplus is saved")
	assert.False(t, hasDiagnostic(res, domain.SeverityWarning))

	for i := range res.Ages {
		assert.True(t, res.NetWorth[i].Equal(res.Assets[i].Sub(res.Liabilities[i])))
	}
}

func TestRun_ConservationIdentities(t *testing.T) {
	b := graduateBundle()
	b.IncludeBaselineExpenses = true
	b.Assets = []domain.Asset{{Type: domain.AssetSavings, Name: "Savings", InitialValue: dec(3000)}}
	b.Milestones = milestones(
		domain.CarPurchase{MilestoneBase: domain.MilestoneBase{Year: 1}, CarPrice: dec(25000)},
		domain.Marriage{MilestoneBase: domain.MilestoneBase{Year: 2}, SpouseIncome: money.Ptr(dec(45000))},
		domain.Child{MilestoneBase: domain.MilestoneBase{Year: 3}},
	)
	res := run(t, b)

	for i := range res.Ages {
		assert.True(t, res.Expenses[i].Equal(CategoryTotal(res, i)), "year %d: expenses must equal the category sum", i)
		assert.True(t, res.Liabilities[i].GreaterThanOrEqual(NamedLiabilities(res, i)), "year %d", i)
		assets := money.Sum(res.Savings[i], res.RetirementSavings[i], res.Investments[i], res.HomeValue[i], res.CarValue[i], res.OtherAssets[i])
		assert.True(t, res.Assets[i].Equal(assets), "year %d: assets must equal the bucket sum", i)
		assert.True(t, res.NetWorth[i].Equal(res.Assets[i].Sub(res.Liabilities[i])))
		assert.True(t, res.TotalTax[i].Equal(money.Sum(res.PayrollTax[i], res.FederalTax[i], res.StateTax[i])))
	}
}

func TestRun_Deterministic(t *testing.T) {
	b := graduateBundle()
	b.IncludeBaselineExpenses = true
	b.Milestones = milestones(domain.HomePurchase{MilestoneBase: domain.MilestoneBase{Year: 2}, HomePrice: dec(250000)})

	first, err := json.Marshal(run(t, b))
	require.NoError(t, err)
	second, err := json.Marshal(run(t, b))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestRun_ShortfallBorrowsPersonalLoan(t *testing.T) {
	rate, term := dec(0.10), 5
	b := &domain.Bundle{
		StartAge:                 30,
		YearsToProject:           domain.Years(4),
		PersonalLoanInterestRate: &rate,
		PersonalLoanTermYears:    &term,
		Expenditures:             []domain.Expenditure{expense(domain.CategoryFood, 10000)},
	}
	res := run(t, b)

	assert.Equal(t, "-10000.00", res.NetCashFlow[0].StringFixed(2))
	assert.True(t, res.PersonalLoans[0].Equal(res.NetCashFlow[0].Neg()), "shortfall appears as debt in the same year")
	assert.True(t, res.Debt[1].IsPositive())
	assert.True(t, hasDiagnostic(res, domain.SeverityInfo))

	// Each year the carried balance amortizes over a fresh term, then the new shortfall is added.
	for i := 1; i < len(res.Ages); i++ {
		carried := AmortizeYear(res.PersonalLoans[i-1], rate, term, false, false).NewBalance
		want := carried.Add(res.NetCashFlow[i].Neg())
		assert.InDelta(t, want.InexactFloat64(), res.PersonalLoans[i].InexactFloat64(), 0.02, "year %d", i)
		assert.True(t, res.PersonalLoans[i].GreaterThan(res.PersonalLoans[i-1]), "a recurring shortfall extends the loan")
	}
}

func TestRun_ShortfallDrawsSavingsAboveEmergencyFund(t *testing.T) {
	b := &domain.Bundle{
		StartAge:            30,
		YearsToProject:      domain.Years(1),
		EmergencyFundAmount: dec(10000),
		Assets:              []domain.Asset{{Type: domain.AssetSavings, Name: "Savings", InitialValue: dec(15000)}},
		Expenditures:        []domain.Expenditure{expense(domain.CategoryFood, 8000)},
	}
	res := run(t, b)

	assert.Equal(t, "10000.00", res.Savings[0].StringFixed(2), "savings are drawn down to the emergency floor")
	assert.Equal(t, "3000.00", res.PersonalLoans[0].StringFixed(2), "the rest is borrowed")
}

func TestRun_MilestoneAtHorizonChangesNothing(t *testing.T) {
	base := run(t, graduateBundle())

	b := graduateBundle()
	b.Milestones = milestones(domain.JobChange{
		MilestoneBase: domain.MilestoneBase{Year: 5, Name: "late raise"},
		NewSalary:     money.Ptr(dec(150000)),
	})
	withLate := run(t, b)

	assert.Equal(t, fixed(base.NetWorth), fixed(withLate.NetWorth))
	assert.Equal(t, fixed(base.Income), fixed(withLate.Income))
	assert.Equal(t, fixed(base.Expenses), fixed(withLate.Expenses))
	require.Len(t, withLate.DeferredMilestones, 1)
	assert.Equal(t, "late raise", withLate.DeferredMilestones[0].Label)
	assert.Empty(t, withLate.AppliedMilestones)
}

func TestRun_InvalidBundle(t *testing.T) {
	engine := NewCalculationEngine()
	tests := []struct {
		name   string
		bundle *domain.Bundle
	}{
		{"nil bundle", nil},
		{"missing horizon", &domain.Bundle{StartAge: 30}},
		{"zero horizon", &domain.Bundle{YearsToProject: domain.Years(0)}},
		{"negative emergency fund", &domain.Bundle{YearsToProject: domain.Years(3), EmergencyFundAmount: dec(-1)}},
		{"bad personal loan term", &domain.Bundle{YearsToProject: domain.Years(3), PersonalLoanTermYears: domain.Years(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Run(context.Background(), tt.bundle)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidBundle))
		})
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCalculationEngine().Run(ctx, graduateBundle())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_HomePurchase(t *testing.T) {
	b := graduateBundle()
	b.Incomes = []domain.Income{salary(150000, 0)}
	b.Assets = []domain.Asset{{Type: domain.AssetSavings, Name: "Savings", InitialValue: dec(80000)}}
	b.Expenditures = []domain.Expenditure{expense(domain.CategoryHousing, 18000)}
	b.Milestones = milestones(domain.HomePurchase{MilestoneBase: domain.MilestoneBase{Year: 2}, HomePrice: dec(300000)})
	res := run(t, b)

	assert.Equal(t, "18000.00", res.Housing[1].StringFixed(2))
	assert.Equal(t, "7350.00", res.Housing[2].StringFixed(2), "rent is replaced by carrying costs")
	assert.Equal(t, "309000.00", res.HomeValue[2].StringFixed(2), "the home appreciates in its first year")
	assert.Equal(t, "60000.00", res.CapitalOutlay[2].StringFixed(2))
	assert.True(t, res.Mortgage[2].IsPositive())
	assert.True(t, res.Mortgage[2].LessThan(dec(240000)))
	assert.True(t, res.HomeValue[1].IsZero())
}

func TestRun_Marriage(t *testing.T) {
	b := &domain.Bundle{
		StartAge:       28,
		YearsToProject: domain.Years(3),
		Incomes:        []domain.Income{salary(80000, 0)},
		Expenditures:   []domain.Expenditure{expense(domain.CategoryFood, 10000)},
		Milestones: milestones(domain.Marriage{
			MilestoneBase: domain.MilestoneBase{Year: 1},
			SpouseIncome:  money.Ptr(dec(40000)),
			WeddingCost:   money.Ptr(dec(20000)),
		}),
	}
	res := run(t, b)

	assert.Equal(t, "10000.00", res.Food[0].StringFixed(2))
	assert.Equal(t, "15000.00", res.Food[1].StringFixed(2), "living costs scale with household size")
	assert.Equal(t, "120000.00", res.Income[1].StringFixed(2))
	assert.Equal(t, "20000.00", res.Other[1].StringFixed(2))
	assert.True(t, res.Other[2].IsZero(), "wedding cost is charged once")

	single := NewFederalTaxCalculator(policyFor(t, nil, ""))
	singleTax, _, _ := single.Calculate(dec(120000), domain.FilingSingle)
	assert.True(t, res.FederalTax[1].LessThan(money.Cents(singleTax)), "married filing applies from the wedding year")
}

func TestRun_EducationPausesIncome(t *testing.T) {
	b := &domain.Bundle{
		StartAge:       20,
		YearsToProject: domain.Years(5),
		Incomes:        []domain.Income{salary(40000, 0)},
		Milestones: milestones(domain.Education{
			MilestoneBase:        domain.MilestoneBase{Year: 1, Name: "degree"},
			Years:                2,
			AnnualTuition:        dec(12000),
			AnnualLoanAmount:     money.Ptr(dec(10000)),
			WorkStatus:           domain.WorkStatusNotWorking,
			PostGraduationSalary: money.Ptr(dec(70000)),
		}),
	}
	res := run(t, b)

	assert.Equal(t, []string{"40000.00", "0.00", "0.00", "70000.00", "72100.00"}, fixed(res.Income))
	assert.Equal(t, []string{"0.00", "10000.00", "10000.00", "0.00", "0.00"}, fixed(res.Financing))
	assert.Equal(t, "10550.00", res.EducationLoans[1].StringFixed(2), "unsubsidized interest capitalizes while in school")
	assert.Equal(t, "12000.00", res.Education[1].StringFixed(2))

	require.Len(t, res.EducationPath, 1)
	assert.Equal(t, 3, res.EducationPath[0].GraduationYear)
	require.Len(t, res.JobPath, 1)
	assert.Equal(t, "education:explicit", res.JobPath[0].Source)
}

func TestRun_EducationWhileWorking(t *testing.T) {
	b := &domain.Bundle{
		StartAge:       20,
		YearsToProject: domain.Years(3),
		Incomes:        []domain.Income{salary(40000, 0)},
		Milestones: milestones(domain.Education{
			MilestoneBase: domain.MilestoneBase{Year: 0},
			Years:         2,
			AnnualTuition: dec(5000),
			WorkStatus:    domain.WorkStatusWorking,
		}),
	}
	res := run(t, b)
	assert.Equal(t, []string{"40000.00", "40000.00", "40000.00"}, fixed(res.Income))
}

func TestRun_Military(t *testing.T) {
	tests := []struct {
		name   string
		status domain.WorkStatus
		want   []string
	}{
		{"not working pauses civilian pay", domain.WorkStatusNotWorking, []string{"30000.00", "30000.00", "30000.00", "30000.00", "40000.00"}},
		{"working keeps civilian pay", domain.WorkStatusWorking, []string{"70000.00", "70000.00", "70000.00", "70000.00", "40000.00"}},
		{"unspecified keeps civilian pay", domain.WorkStatusUnspecified, []string{"70000.00", "70000.00", "70000.00", "70000.00", "40000.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &domain.Bundle{
				StartAge:       18,
				YearsToProject: domain.Years(5),
				Incomes:        []domain.Income{salary(40000, 0)},
				Milestones: milestones(domain.Military{
					MilestoneBase: domain.MilestoneBase{Year: 0},
					Branch:        "Navy",
					Years:         4,
					AnnualPay:     dec(30000),
					PayGrowth:     money.Ptr(decimal.Zero),
					WorkStatus:    tt.status,
				}),
			}
			res := run(t, b)

			assert.Equal(t, tt.want, fixed(res.Income))
			require.Len(t, res.MilitaryPath, 1)
			assert.Equal(t, "Navy", res.MilitaryPath[0].Branch)
			assert.Equal(t, 3, res.MilitaryPath[0].EndYear)
		})
	}
}

func TestRun_UnknownMilestoneIsSkipped(t *testing.T) {
	b := graduateBundle()
	b.Milestones = milestones(domain.UnknownMilestone{MilestoneBase: domain.MilestoneBase{Year: 1}, Type: "inheritance"})
	res := run(t, b)

	assert.Equal(t, fixed(run(t, graduateBundle()).NetWorth), fixed(res.NetWorth))
	assert.True(t, hasDiagnostic(res, domain.SeverityWarning))
	assert.Empty(t, res.AppliedMilestones)
}

func TestRun_InvalidElementsAreSkipped(t *testing.T) {
	b := graduateBundle()
	b.Liabilities = append(b.Liabilities, domain.Liability{Type: domain.LiabilityOther, Name: "broken", InitialBalance: dec(500)})
	b.Expenditures = []domain.Expenditure{expense("vacations", 1000)}
	res := run(t, b)

	assert.Equal(t, "18409.91", res.Liabilities[0].StringFixed(2))
	assert.True(t, res.Expenses[0].Equal(res.Debt[0]))
	var warnings int
	for _, d := range res.Diagnostics {
		if d.Severity == domain.SeverityWarning {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestRun_RetirementContribution(t *testing.T) {
	b := &domain.Bundle{
		StartAge:                   25,
		YearsToProject:             domain.Years(2),
		Incomes:                    []domain.Income{salary(50000, 0)},
		RetirementContributionRate: dec(0.10),
	}
	res := run(t, b)

	assert.Equal(t, "5000.00", res.RetirementContribution[0].StringFixed(2))
	assert.Equal(t, "5000.00", res.RetirementSavings[0].StringFixed(2))
	assert.Equal(t, "10300.00", res.RetirementSavings[1].StringFixed(2), "contributions compound at the retirement growth rate")

	// Contributions reduce income-taxed wages but not payroll wages
	noPlan := run(t, &domain.Bundle{StartAge: 25, YearsToProject: domain.Years(1), Incomes: []domain.Income{salary(50000, 0)}})
	assert.True(t, res.FederalTax[0].LessThan(noPlan.FederalTax[0]))
	assert.True(t, res.PayrollTax[0].Equal(noPlan.PayrollTax[0]))
}

func TestRun_LocationFactors(t *testing.T) {
	rec := austin()
	b := &domain.Bundle{
		StartAge:       30,
		YearsToProject: domain.Years(1),
		LocationData:   &rec,
		Incomes:        []domain.Income{salary(100000, 0)},
		Expenditures:   []domain.Expenditure{expense(domain.CategoryFood, 6000)},
	}
	res := run(t, b)

	assert.Equal(t, "110000.00", res.Income[0].StringFixed(2))
	assert.Equal(t, "7200.00", res.Food[0].StringFixed(2))
	assert.True(t, res.StateTax[0].IsZero(), "TX has no income tax")
	assert.Equal(t, "TX", res.Location.State)
}

func TestRunBatch(t *testing.T) {
	engine := NewCalculationEngine()
	engine.MaxConcurrency = 2

	var bundles []*domain.Bundle
	for _, name := range []string{"a", "b", "c", "d"} {
		b := graduateBundle()
		b.Name = name
		bundles = append(bundles, b)
	}
	results, err := engine.RunBatch(context.Background(), bundles)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, bundles[i].Name, r.Name, "results keep input order")
	}

	bundles[2] = &domain.Bundle{Name: "bad"}
	_, err = engine.RunBatch(context.Background(), bundles)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)
	assert.Contains(t, err.Error(), "scenario bad")
}
