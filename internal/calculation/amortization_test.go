package calculation

import (
	"testing"

	money "github.com/rpgo/lifepath/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmortizeYear(t *testing.T) {
	tests := []struct {
		name          string
		balance       decimal.Decimal
		rate          decimal.Decimal
		remaining     int
		deferred      bool
		subsidized    bool
		wantBalance   decimal.Decimal
		wantInterest  decimal.Decimal
		wantPrincipal decimal.Decimal
		wantPayment   decimal.Decimal
	}{
		{
			name:        "Terminal state has no term left",
			balance:     decimal.NewFromInt(5000),
			rate:        decimal.NewFromFloat(0.05),
			remaining:   0,
			wantBalance: decimal.Zero,
		},
		{
			name:        "Paid off loan stays at zero",
			balance:     decimal.Zero,
			rate:        decimal.NewFromFloat(0.05),
			remaining:   5,
			wantBalance: decimal.Zero,
		},
		{
			name:        "Subsidized deferment accrues nothing",
			balance:     decimal.NewFromInt(10000),
			rate:        decimal.NewFromFloat(0.05),
			remaining:   10,
			deferred:    true,
			subsidized:  true,
			wantBalance: decimal.NewFromInt(10000),
		},
		{
			name:        "Unsubsidized deferment capitalizes interest",
			balance:     decimal.NewFromInt(10000),
			rate:        decimal.NewFromFloat(0.05),
			remaining:   10,
			deferred:    true,
			wantBalance: decimal.NewFromInt(10500),
		},
		{
			name:          "Zero rate falls back to straight line",
			balance:       decimal.NewFromInt(1000),
			rate:          decimal.Zero,
			remaining:     4,
			wantBalance:   decimal.NewFromInt(750),
			wantPrincipal: decimal.NewFromInt(250),
			wantPayment:   decimal.NewFromInt(250),
		},
		{
			name:          "Negative rate falls back to straight line",
			balance:       decimal.NewFromInt(900),
			rate:          decimal.NewFromFloat(-0.01),
			remaining:     3,
			wantBalance:   decimal.NewFromInt(600),
			wantPrincipal: decimal.NewFromInt(300),
			wantPayment:   decimal.NewFromInt(300),
		},
		{
			name:          "Fixed payment student loan first year",
			balance:       decimal.NewFromInt(20000),
			rate:          decimal.NewFromFloat(0.05),
			remaining:     10,
			wantBalance:   decimal.NewFromFloat(18409.91),
			wantInterest:  decimal.NewFromInt(1000),
			wantPrincipal: decimal.NewFromFloat(1590.09),
			wantPayment:   decimal.NewFromFloat(2590.09),
		},
		{
			name:          "Final year retires the balance",
			balance:       decimal.NewFromInt(1000),
			rate:          decimal.NewFromFloat(0.10),
			remaining:     1,
			wantBalance:   decimal.Zero,
			wantInterest:  decimal.NewFromInt(100),
			wantPrincipal: decimal.NewFromInt(1000),
			wantPayment:   decimal.NewFromInt(1100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := AmortizeYear(tt.balance, tt.rate, tt.remaining, tt.deferred, tt.subsidized)
			assert.True(t, money.Cents(res.NewBalance).Equal(tt.wantBalance), "balance: got %s want %s", res.NewBalance, tt.wantBalance)
			assert.True(t, money.Cents(res.InterestPaid).Equal(tt.wantInterest), "interest: got %s want %s", res.InterestPaid, tt.wantInterest)
			assert.True(t, money.Cents(res.PrincipalPaid).Equal(tt.wantPrincipal), "principal: got %s want %s", res.PrincipalPaid, tt.wantPrincipal)
			assert.True(t, money.Cents(res.PaymentDue).Equal(tt.wantPayment), "payment: got %s want %s", res.PaymentDue, tt.wantPayment)
		})
	}
}

func TestAmortizeYear_CapitalizedInterestReported(t *testing.T) {
	res := AmortizeYear(decimal.NewFromInt(10000), decimal.NewFromFloat(0.05), 10, true, false)
	assert.True(t, res.InterestCapitalized.Equal(decimal.NewFromInt(500)))
	assert.True(t, res.PaymentDue.IsZero())
	assert.True(t, res.InterestPaid.IsZero())
}

// Simulating exactly the term drives any loan to zero.
func TestAmortizeYear_TerminatesAtTerm(t *testing.T) {
	cases := []struct {
		balance float64
		rate    float64
		term    int
	}{
		{20000, 0.05, 10},
		{350000, 0.065, 30},
		{27000, 0.07, 5},
		{1234.56, 0.2399, 3},
		{5000, 0, 7},
		{100, 0.01, 1},
	}
	for _, c := range cases {
		balance := decimal.NewFromFloat(c.balance)
		rate := decimal.NewFromFloat(c.rate)
		for year := 0; year < c.term; year++ {
			res := AmortizeYear(balance, rate, c.term-year, false, false)
			assert.False(t, res.NewBalance.IsNegative())
			assert.True(t, res.NewBalance.LessThanOrEqual(balance), "balance must not grow outside deferment")
			balance = res.NewBalance
		}
		assert.True(t, money.NearlyEqual(balance, decimal.Zero, money.CentsTolerance), "balance after %d years: %s", c.term, balance)
	}
}

func TestFixedPayment(t *testing.T) {
	p := FixedPayment(decimal.NewFromInt(20000), decimal.NewFromFloat(0.05), 10)
	assert.Equal(t, "2590.09", p.StringFixed(2))

	assert.True(t, FixedPayment(decimal.NewFromInt(1000), decimal.Zero, 4).Equal(decimal.NewFromInt(250)))
	assert.True(t, FixedPayment(decimal.NewFromInt(1000), decimal.NewFromFloat(0.05), 0).IsZero())
}
