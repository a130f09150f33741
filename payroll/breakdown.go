/*
breakdown.go - Final-pay breakdown calculation

PURPOSE:
  The heart of the engine: a pure function from termination pay inputs and
  a jurisdiction rule to a complete final-pay breakdown.

INVARIANTS:
  pto_payout = pto_hours_remaining * hourly_rate   (iff jurisdiction
               requires payout, else exactly zero regardless of hours)
  gross_pay  = regular_pay + pto_payout + reimbursements
  net_pay    = gross_pay - total_taxes - garnishments

The breakdown is never persisted as authoritative state on its own; it is
recomputed on demand from its inputs. Submission snapshots one for the
audit record, but the function remains the source of truth.

SEE ALSO:
  - tax.go: Withholding strategies
  - rules package: StateRule (PTOPayoutRequired)
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/saurellius/finalpay-engine/rules"
)

// =============================================================================
// INPUTS - What the calculation consumes
// =============================================================================

// Inputs are the monetary facts of a termination. All amounts must be
// non-negative; garnishments are entered as the positive amount withheld.
type Inputs struct {
	RegularPay        Money
	PTOHoursRemaining decimal.Decimal
	HourlyRate        Money
	Reimbursements    Money
	Garnishments      Money
}

// Validate rejects inputs that would make the breakdown meaningless.
func (in Inputs) Validate() error {
	checks := []struct {
		field string
		value Money
	}{
		{"regular_pay", in.RegularPay},
		{"hourly_rate", in.HourlyRate},
		{"reimbursements", in.Reimbursements},
		{"garnishments", in.Garnishments},
	}
	for _, c := range checks {
		if c.value.IsNegative() {
			return &ValidationError{Field: c.field, Message: "must not be negative"}
		}
	}
	if in.PTOHoursRemaining.IsNegative() {
		return &ValidationError{Field: "pto_hours_remaining", Message: "must not be negative"}
	}
	if in.PTOHoursRemaining.IsPositive() && in.HourlyRate.IsZero() {
		return ErrMissingRate
	}
	return nil
}

// =============================================================================
// BREAKDOWN - The computed result
// =============================================================================

// FinalPayBreakdown is the itemized final paycheck. All values are rounded
// to cents; derived, never stored as independent state.
type FinalPayBreakdown struct {
	RegularPay     Money `json:"regular_pay"`
	PTOPayout      Money `json:"pto_payout"`
	Reimbursements Money `json:"reimbursements"`
	GrossPay       Money `json:"gross_pay"`
	FederalTax     Money `json:"federal_tax"`
	StateTax       Money `json:"state_tax"`
	FICA           Money `json:"fica"`
	TotalTaxes     Money `json:"total_taxes"`
	Garnishments   Money `json:"garnishments"`
	NetPay         Money `json:"net_pay"`
}

// Calculate computes the final-pay breakdown for the given inputs under the
// jurisdiction's rule. Pure: same inputs, same breakdown.
func Calculate(in Inputs, rule rules.StateRule, tax TaxCalculator) (FinalPayBreakdown, error) {
	if err := in.Validate(); err != nil {
		return FinalPayBreakdown{}, err
	}
	if tax == nil {
		tax = NewFlatRateCalculator()
	}

	ptoPayout := Zero()
	if rule.PTOPayoutRequired {
		ptoPayout = in.HourlyRate.Mul(in.PTOHoursRemaining)
	}

	gross := in.RegularPay.Add(ptoPayout).Add(in.Reimbursements)
	withheld := tax.Withhold(gross)
	net := gross.Sub(withheld.Total).Sub(in.Garnishments)

	return FinalPayBreakdown{
		RegularPay:     in.RegularPay.Round2(),
		PTOPayout:      ptoPayout.Round2(),
		Reimbursements: in.Reimbursements.Round2(),
		GrossPay:       gross.Round2(),
		FederalTax:     withheld.Federal.Round2(),
		StateTax:       withheld.State.Round2(),
		FICA:           withheld.FICA.Round2(),
		TotalTaxes:     withheld.Total.Round2(),
		Garnishments:   in.Garnishments.Round2(),
		NetPay:         net.Round2(),
	}, nil
}
