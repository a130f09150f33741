package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurellius/finalpay-engine/payroll"
	"github.com/saurellius/finalpay-engine/rules"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(s string) payroll.Money { return payroll.MustParseMoney(s) }

func hours(s string) decimal.Decimal { return payroll.MustParseDecimal(s) }

func payoutRule(required bool) rules.StateRule {
	return rules.StateRule{
		Jurisdiction:        "XX",
		InvoluntaryDeadline: rules.DeadlineImmediate,
		VoluntaryDeadline:   rules.DeadlineNextPayday,
		PTOPayoutRequired:   required,
	}
}

// =============================================================================
// BREAKDOWN TESTS
// =============================================================================

func TestCalculate_CaliforniaExample(t *testing.T) {
	// GIVEN: CA involuntary termination, regular pay 2000, 10 PTO hours at
	// 25/h, 50 reimbursements, no garnishments
	in := payroll.Inputs{
		RegularPay:        money("2000"),
		PTOHoursRemaining: hours("10"),
		HourlyRate:        money("25"),
		Reimbursements:    money("50"),
		Garnishments:      money("0"),
	}

	// WHEN
	b, err := payroll.Calculate(in, payoutRule(true), payroll.NewFlatRateCalculator())
	require.NoError(t, err)

	// THEN: exact cents, no float drift
	assert.Equal(t, "250.00", b.PTOPayout.String())
	assert.Equal(t, "2300.00", b.GrossPay.String())
	assert.Equal(t, "506.00", b.FederalTax.String())
	assert.Equal(t, "115.00", b.StateTax.String())
	assert.Equal(t, "175.95", b.FICA.String())
	assert.Equal(t, "796.95", b.TotalTaxes.String())
	assert.Equal(t, "1503.05", b.NetPay.String())
}

func TestCalculate_NoPayoutStatesZeroPTO(t *testing.T) {
	// PTO payout must be exactly zero when the jurisdiction does not
	// require it, regardless of the hours balance.
	for _, ptoHours := range []string{"0", "1", "10", "173.5", "9999"} {
		in := payroll.Inputs{
			RegularPay:        money("1500"),
			PTOHoursRemaining: hours(ptoHours),
			HourlyRate:        money("42.50"),
		}
		b, err := payroll.Calculate(in, payoutRule(false), nil)
		require.NoError(t, err)
		assert.True(t, b.PTOPayout.IsZero(), "pto_payout should be 0 for %s hours", ptoHours)
		assert.Equal(t, "1500.00", b.GrossPay.String())
	}
}

func TestCalculate_Invariants(t *testing.T) {
	cases := []payroll.Inputs{
		{RegularPay: money("2000"), PTOHoursRemaining: hours("10"), HourlyRate: money("25"), Reimbursements: money("50")},
		{RegularPay: money("987.65"), PTOHoursRemaining: hours("3.25"), HourlyRate: money("31.17"), Reimbursements: money("12.34"), Garnishments: money("100")},
		{RegularPay: money("0"), PTOHoursRemaining: hours("0"), HourlyRate: money("0")},
	}

	// Fields are rounded to cents independently, so identities over the
	// rounded values hold to within one cent.
	cent := money("0.01")
	within := func(a, b payroll.Money) bool {
		diff := a.Sub(b)
		return !diff.GreaterThan(cent) && !diff.Neg().GreaterThan(cent)
	}

	for _, in := range cases {
		b, err := payroll.Calculate(in, payoutRule(true), nil)
		require.NoError(t, err)

		gross := b.RegularPay.Add(b.PTOPayout).Add(b.Reimbursements)
		assert.True(t, b.GrossPay.Equal(gross), "gross != regular + pto + reimbursements")

		taxes := b.FederalTax.Add(b.StateTax).Add(b.FICA)
		assert.True(t, within(b.TotalTaxes, taxes), "total_taxes %s vs parts %s", b.TotalTaxes, taxes)

		net := b.GrossPay.Sub(b.TotalTaxes).Sub(b.Garnishments)
		assert.True(t, within(b.NetPay, net), "net %s vs gross - taxes - garnishments %s", b.NetPay, net)
	}
}

func TestCalculate_RejectsBadInputs(t *testing.T) {
	// Negative money never calculates
	in := payroll.Inputs{RegularPay: money("-1")}
	_, err := payroll.Calculate(in, payoutRule(true), nil)
	assert.ErrorIs(t, err, payroll.ErrValidation)

	var fieldErr *payroll.ValidationError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "regular_pay", fieldErr.Field)

	// PTO hours without a rate would silently zero the payout
	in = payroll.Inputs{RegularPay: money("1000"), PTOHoursRemaining: hours("8")}
	_, err = payroll.Calculate(in, payoutRule(true), nil)
	assert.ErrorIs(t, err, payroll.ErrMissingRate)
}

func TestCalculate_GarnishmentsCanDriveNetNegative(t *testing.T) {
	// A garnishment larger than the check is surfaced as-is; clamping to
	// zero would hide money owed.
	in := payroll.Inputs{RegularPay: money("100"), Garnishments: money("500")}
	b, err := payroll.Calculate(in, payoutRule(false), nil)
	require.NoError(t, err)
	assert.True(t, b.NetPay.IsNegative())
}

// =============================================================================
// TAX STRATEGY TESTS
// =============================================================================

func TestFlatRateCalculator_Rates(t *testing.T) {
	w := payroll.NewFlatRateCalculator().Withhold(money("1000"))
	assert.Equal(t, "220.00", w.Federal.Round2().String())
	assert.Equal(t, "50.00", w.State.Round2().String())
	assert.Equal(t, "76.50", w.FICA.Round2().String())
	assert.Equal(t, "346.50", w.Total.Round2().String())
}

func TestBracketCalculator_MarginalBands(t *testing.T) {
	calc := payroll.NewBracketCalculator(payroll.MustParseDecimal("0.05"))

	// 1500 gross: 500 @ 10% + 1000 @ 12% = 170
	w := calc.Withhold(money("1500"))
	assert.Equal(t, "170.00", w.Federal.Round2().String())

	// Inside the first band only
	w = calc.Withhold(money("400"))
	assert.Equal(t, "40.00", w.Federal.Round2().String())

	// Withholding is monotonic in gross
	low := calc.Withhold(money("2000")).Federal
	high := calc.Withhold(money("2001")).Federal
	assert.True(t, high.GreaterThan(low))
}

func TestBracketCalculator_SameInterfaceAsFlat(t *testing.T) {
	// Swapping strategies must not disturb the breakdown invariants.
	in := payroll.Inputs{
		RegularPay:        money("2000"),
		PTOHoursRemaining: hours("10"),
		HourlyRate:        money("25"),
		Reimbursements:    money("50"),
	}
	b, err := payroll.Calculate(in, payoutRule(true), payroll.NewBracketCalculator(payroll.MustParseDecimal("0.05")))
	require.NoError(t, err)

	// Bands on 2300: 500 @ 10% + 1500 @ 12% + 300 @ 22% = 296
	assert.Equal(t, "2300.00", b.GrossPay.String())
	assert.Equal(t, "296.00", b.FederalTax.String())
	assert.Equal(t, "1713.05", b.NetPay.String())
}
