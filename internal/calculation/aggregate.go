package calculation

import (
	"github.com/rpgo/lifepath/internal/domain"
	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Aggregate packages year rows into the parallel-array result. Every part is
// rounded to cents first and totals are summed from the rounded parts, so
// expenses equal the sum of categories and liabilities equal the sum of buckets
// exactly.
func Aggregate(rows []domain.YearRow) *domain.ProjectionResult {
	r := &domain.ProjectionResult{}
	for _, row := range rows {
		r.Ages = append(r.Ages, row.Age)

		expenses := decimal.Zero
		for _, c := range domain.ExpenseCategories {
			v := money.Cents(row.Categories[c])
			r.AppendCategory(c, v)
			expenses = expenses.Add(v)
		}

		assets := decimal.Zero
		for _, b := range domain.AssetBuckets {
			v := money.Cents(row.AssetBuckets[b])
			r.AppendAsset(b, v)
			assets = assets.Add(v)
		}

		liabilities := decimal.Zero
		for _, b := range domain.LiabilityBuckets {
			v := money.Cents(money.FloorZero(row.LiabilityBuckets[b]))
			r.AppendLiability(b, v)
			liabilities = liabilities.Add(v)
		}

		payroll := money.Cents(row.Taxes.PayrollTax)
		federal := money.Cents(row.Taxes.FederalTax)
		state := money.Cents(row.Taxes.StateTax)

		r.Income = append(r.Income, money.Cents(row.Income))
		r.Expenses = append(r.Expenses, expenses)
		r.Assets = append(r.Assets, assets)
		r.Liabilities = append(r.Liabilities, liabilities)
		r.NetWorth = append(r.NetWorth, assets.Sub(liabilities))
		r.NetCashFlow = append(r.NetCashFlow, money.Cents(row.NetCashFlow))

		r.PayrollTax = append(r.PayrollTax, payroll)
		r.FederalTax = append(r.FederalTax, federal)
		r.StateTax = append(r.StateTax, state)
		r.TotalTax = append(r.TotalTax, payroll.Add(federal).Add(state))
		r.EffectiveTaxRate = append(r.EffectiveTaxRate, money.RateRound(row.Taxes.EffectiveTaxRate))
		r.MarginalTaxRate = append(r.MarginalTaxRate, money.RateRound(row.Taxes.MarginalTaxRate))

		r.RetirementContribution = append(r.RetirementContribution, money.Cents(row.RetirementContribution))
		r.Financing = append(r.Financing, money.Cents(row.Financing))
		r.CapitalOutlay = append(r.CapitalOutlay, money.Cents(row.CapitalOutlay))
	}
	return r
}

// NamedLiabilities sums the individually reported liability buckets for year i
func NamedLiabilities(r *domain.ProjectionResult, i int) decimal.Decimal {
	total := decimal.Zero
	for _, b := range domain.NamedLiabilityBuckets {
		if s := r.LiabilitySeries(b); i < len(s) {
			total = total.Add(s[i])
		}
	}
	return total
}

// CategoryTotal sums the expense categories for year i
func CategoryTotal(r *domain.ProjectionResult, i int) decimal.Decimal {
	total := decimal.Zero
	for _, c := range domain.ExpenseCategories {
		if s := r.CategorySeries(c); i < len(s) {
			total = total.Add(s[i])
		}
	}
	return total
}
