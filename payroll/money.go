/*
Package payroll provides the final-pay calculation core.

PURPOSE:
  Pure, jurisdiction-aware computation of a terminated employee's final
  paycheck: PTO payout, gross pay, tax withholding, and net pay. There is
  no I/O here - every function is a deterministic mapping from inputs to
  a breakdown.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A currency amount backed by decimal.Decimal
  - Cents rounding: all presented values round half-up to 2 places

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal, never float64, for currency math
  2. Purity: Calculation has no side effects and no hidden state
  3. Explicit failure: invalid inputs return errors, never silent zeros

USAGE:
  gross := payroll.MustParseMoney("2300")
  fica := gross.MulRate(payroll.MustParseDecimal("0.0765"))

SEE ALSO:
  - breakdown.go: FinalPayBreakdown and Calculate
  - tax.go: TaxCalculator strategies
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount with decimal precision
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

// NewMoneyFromCents builds a Money from an integer number of cents.
func NewMoneyFromCents(cents int64) Money {
	return Money{Value: decimal.NewFromInt(cents).Shift(-2)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustParseMoney panics on malformed input. Test and seed data only.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func Zero() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money                  { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money                  { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money        { return Money{Value: m.Value.Mul(s)} }
func (m Money) MulRate(rate decimal.Decimal) Money { return Money{Value: m.Value.Mul(rate)} }
func (m Money) Neg() Money                         { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool                   { return m.Value.IsNegative() }
func (m Money) IsZero() bool                       { return m.Value.IsZero() }
func (m Money) IsPositive() bool                   { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool           { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool              { return m.Value.LessThan(b.Value) }
func (m Money) Equal(b Money) bool                 { return m.Value.Equal(b.Value) }

// Round2 rounds half-up to cents. Applied at presentation boundaries;
// intermediate math keeps full precision.
func (m Money) Round2() Money { return Money{Value: m.Value.Round(2)} }

// Cents returns the amount as integer cents, rounded half-up.
func (m Money) Cents() int64 { return m.Value.Shift(2).Round(0).IntPart() }

func (m Money) Float64() float64 { f, _ := m.Value.Float64(); return f }

// String formats with exactly two decimal places ("2300.00").
func (m Money) String() string { return m.Value.StringFixed(2) }

// MarshalJSON emits the amount as a 2-decimal JSON string to avoid
// float precision loss in clients.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Value.StringFixed(2) + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		m.Value = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Value = d
	return nil
}
