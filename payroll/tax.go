/*
tax.go - Withholding strategies

PURPOSE:
  Abstracts tax withholding behind the TaxCalculator interface so the
  breakdown logic never hardcodes rates. Two strategies ship:

  FlatRateCalculator (default):
    Supplemental-wage style flat percentages of gross. This matches how
    most payroll systems withhold on one-off final checks: federal 22%,
    state 5%, FICA 7.65%. Simple and predictable, but it is an
    approximation, not a full withholding-table computation.

  BracketCalculator:
    Progressive federal withholding over marginal brackets, with a
    per-jurisdiction flat state rate. Demonstrates swapping strategies
    per jurisdiction without touching breakdown logic.

USAGE:
  calc := payroll.NewFlatRateCalculator()
  w := calc.Withhold(gross)
  net := gross.Sub(w.Total).Sub(garnishments)

SEE ALSO:
  - breakdown.go: Calculate, the only consumer
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX CALCULATOR - Strategy interface
// =============================================================================

// TaxWithholding is the per-category withholding on a gross amount.
// Values carry full precision; round at presentation.
type TaxWithholding struct {
	Federal Money
	State   Money
	FICA    Money
	Total   Money
}

// TaxCalculator computes withholding on a gross pay amount.
type TaxCalculator interface {
	Withhold(gross Money) TaxWithholding
}

// =============================================================================
// FLAT RATE CALCULATOR - Supplemental-wage approximation (default)
// =============================================================================

type FlatRateCalculator struct {
	FederalRate decimal.Decimal
	StateRate   decimal.Decimal
	FICARate    decimal.Decimal
}

// NewFlatRateCalculator returns the standard supplemental-wage rates:
// federal 22%, state 5%, FICA 7.65%.
func NewFlatRateCalculator() *FlatRateCalculator {
	return &FlatRateCalculator{
		FederalRate: MustParseDecimal("0.22"),
		StateRate:   MustParseDecimal("0.05"),
		FICARate:    MustParseDecimal("0.0765"),
	}
}

var _ TaxCalculator = (*FlatRateCalculator)(nil)

func (c *FlatRateCalculator) Withhold(gross Money) TaxWithholding {
	federal := gross.MulRate(c.FederalRate)
	state := gross.MulRate(c.StateRate)
	fica := gross.MulRate(c.FICARate)
	return TaxWithholding{
		Federal: federal,
		State:   state,
		FICA:    fica,
		Total:   federal.Add(state).Add(fica),
	}
}

// =============================================================================
// BRACKET CALCULATOR - Progressive federal withholding
// =============================================================================

// Bracket is one marginal band. UpTo nil means unbounded (top bracket).
type Bracket struct {
	UpTo *Money
	Rate decimal.Decimal
}

type BracketCalculator struct {
	FederalBrackets []Bracket
	StateRate       decimal.Decimal
	FICARate        decimal.Decimal
}

// NewBracketCalculator returns a progressive calculator with per-paycheck
// federal bands and the given flat state rate. The bands are a coarse
// per-check discretization of the annual schedule, sufficient for showing
// jurisdiction-specific strategies behind the same interface.
func NewBracketCalculator(stateRate decimal.Decimal) *BracketCalculator {
	upTo := func(s string) *Money { m := MustParseMoney(s); return &m }
	return &BracketCalculator{
		FederalBrackets: []Bracket{
			{UpTo: upTo("500"), Rate: MustParseDecimal("0.10")},
			{UpTo: upTo("2000"), Rate: MustParseDecimal("0.12")},
			{UpTo: upTo("4000"), Rate: MustParseDecimal("0.22")},
			{UpTo: upTo("8000"), Rate: MustParseDecimal("0.24")},
			{UpTo: nil, Rate: MustParseDecimal("0.32")},
		},
		StateRate: stateRate,
		FICARate:  MustParseDecimal("0.0765"),
	}
}

var _ TaxCalculator = (*BracketCalculator)(nil)

func (c *BracketCalculator) Withhold(gross Money) TaxWithholding {
	federal := c.marginalFederal(gross)
	state := gross.MulRate(c.StateRate)
	fica := gross.MulRate(c.FICARate)
	return TaxWithholding{
		Federal: federal,
		State:   state,
		FICA:    fica,
		Total:   federal.Add(state).Add(fica),
	}
}

func (c *BracketCalculator) marginalFederal(gross Money) Money {
	tax := Zero()
	lower := Zero()
	for _, b := range c.FederalBrackets {
		if gross.LessThan(lower) || gross.Equal(lower) {
			break
		}
		upper := gross
		if b.UpTo != nil && b.UpTo.LessThan(gross) {
			upper = *b.UpTo
		}
		tax = tax.Add(upper.Sub(lower).MulRate(b.Rate))
		lower = upper
	}
	return tax
}
