/*
Package offboarding implements the termination case lifecycle.

PURPOSE:
  Models a termination case as an immutable value threaded through pure
  transition functions. The offboarding wizard moves a case strictly one
  step at a time:

    Draft -> Info -> PayInputs -> Review -> Checklist -> Submitted

  Every forward transition validates the fields that step collects; no
  step can be skipped. Submitted is terminal: any further mutation fails
  with ErrCaseSubmitted.

KEY CONCEPTS:
  - Case: The termination record (who, when, where, how much)
  - Step: Wizard position
  - Checklist: Seven task flags gating submission (checklist.go)

DESIGN PRINCIPLES:
  1. Value semantics: transitions return a new Case, never mutate
  2. Validate at the boundary each step owns, not all at once
  3. Terminal immutability: a submitted case is an audit record

SEE ALSO:
  - payroll package: Calculate consumes Case.PayInputs()
  - rules package: jurisdiction rules and due dates
*/
package offboarding

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/saurellius/finalpay-engine/payroll"
	"github.com/saurellius/finalpay-engine/rules"
)

// =============================================================================
// STEP - Wizard position
// =============================================================================

type Step string

const (
	StepDraft     Step = "draft"
	StepInfo      Step = "info"
	StepPayInputs Step = "pay_inputs"
	StepReview    Step = "review"
	StepChecklist Step = "checklist"
	StepSubmitted Step = "submitted"
)

// stepOrder defines the wizard sequence. Transitions move exactly one
// position forward or backward.
var stepOrder = []Step{StepDraft, StepInfo, StepPayInputs, StepReview, StepChecklist, StepSubmitted}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// ParseStep validates a step name from external input (store rows, API).
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if step.index() < 0 {
		return "", &FieldError{Field: "step", Message: "unknown step " + s}
	}
	return step, nil
}

// =============================================================================
// CASE - Termination record
// =============================================================================

type Case struct {
	ID         string
	EmployeeID string

	// Info step
	TerminationDate rules.Date
	Type            rules.TerminationType
	LastWorkDate    rules.Date
	Jurisdiction    string

	// Pay inputs step
	PTOHoursRemaining decimal.Decimal
	HourlyRate        payroll.Money
	RegularPay        payroll.Money
	Reimbursements    payroll.Money
	Garnishments      payroll.Money

	Step      Step
	Checklist Checklist

	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt time.Time
}

// NewCase starts a draft case for an employee.
func NewCase(id, employeeID string, now time.Time) (Case, error) {
	if employeeID == "" {
		return Case{}, &FieldError{Field: "employee_id", Message: "required"}
	}
	return Case{
		ID:         id,
		EmployeeID: employeeID,
		Step:       StepDraft,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

// Submitted reports whether the case has reached its terminal state.
func (c Case) Submitted() bool { return c.Step == StepSubmitted }

// =============================================================================
// FIELD TRANSITIONS - Pure updates, rejected after submission
// =============================================================================

// Info is the employment-facts portion of the wizard.
type Info struct {
	TerminationDate rules.Date
	Type            rules.TerminationType
	LastWorkDate    rules.Date
	Jurisdiction    string
}

// WithInfo returns a copy of the case with the info fields replaced.
func (c Case) WithInfo(info Info, now time.Time) (Case, error) {
	if c.Submitted() {
		return c, ErrCaseSubmitted
	}
	c.TerminationDate = info.TerminationDate
	c.Type = info.Type
	c.LastWorkDate = info.LastWorkDate
	c.Jurisdiction = rules.NormalizeCode(info.Jurisdiction)
	c.UpdatedAt = now.UTC()
	return c, nil
}

// WithPayInputs returns a copy of the case with the monetary fields replaced.
func (c Case) WithPayInputs(in payroll.Inputs, now time.Time) (Case, error) {
	if c.Submitted() {
		return c, ErrCaseSubmitted
	}
	c.PTOHoursRemaining = in.PTOHoursRemaining
	c.HourlyRate = in.HourlyRate
	c.RegularPay = in.RegularPay
	c.Reimbursements = in.Reimbursements
	c.Garnishments = in.Garnishments
	c.UpdatedAt = now.UTC()
	return c, nil
}

// ToggleChecklist flips one checklist flag.
func (c Case) ToggleChecklist(f Flag, now time.Time) (Case, error) {
	if c.Submitted() {
		return c, ErrCaseSubmitted
	}
	updated, err := c.Checklist.Toggle(f)
	if err != nil {
		return c, err
	}
	c.Checklist = updated
	c.UpdatedAt = now.UTC()
	return c, nil
}

// PayInputs projects the case's monetary fields for calculation.
func (c Case) PayInputs() payroll.Inputs {
	return payroll.Inputs{
		RegularPay:        c.RegularPay,
		PTOHoursRemaining: c.PTOHoursRemaining,
		HourlyRate:        c.HourlyRate,
		Reimbursements:    c.Reimbursements,
		Garnishments:      c.Garnishments,
	}
}

// =============================================================================
// STEP TRANSITIONS - One step at a time, validated forward
// =============================================================================

// Advance moves the case one step forward, validating the fields the
// current step collected. Advancing out of Checklist is submission and
// requires a complete checklist.
func (c Case) Advance(now time.Time) (Case, error) {
	if c.Submitted() {
		return c, ErrCaseSubmitted
	}

	if err := c.validateThrough(c.Step); err != nil {
		return c, err
	}

	next := stepOrder[c.Step.index()+1]
	if next == StepSubmitted {
		return c.Submit(now)
	}

	c.Step = next
	c.UpdatedAt = now.UTC()
	return c, nil
}

// Back moves the case one step backward. Draft has nowhere to go and a
// submitted case is immutable.
func (c Case) Back(now time.Time) (Case, error) {
	if c.Submitted() {
		return c, ErrCaseSubmitted
	}
	idx := c.Step.index()
	if idx <= 0 {
		return c, &TransitionError{From: c.Step, To: c.Step}
	}
	c.Step = stepOrder[idx-1]
	c.UpdatedAt = now.UTC()
	return c, nil
}

// Submit finalizes the case. Only valid from the Checklist step with every
// task confirmed; the result is terminal.
func (c Case) Submit(now time.Time) (Case, error) {
	if c.Submitted() {
		return c, ErrCaseSubmitted
	}
	if c.Step != StepChecklist {
		return c, &TransitionError{From: c.Step, To: StepSubmitted}
	}
	if !c.Checklist.Complete() {
		return c, &IncompleteChecklistError{Remaining: c.Checklist.Remaining()}
	}
	c.Step = StepSubmitted
	c.SubmittedAt = now.UTC()
	c.UpdatedAt = now.UTC()
	return c, nil
}

// validateThrough checks the fields owned by the given step before the
// wizard may leave it.
func (c Case) validateThrough(step Step) error {
	switch step {
	case StepDraft:
		if c.EmployeeID == "" {
			return &FieldError{Field: "employee_id", Message: "required"}
		}
	case StepInfo:
		if c.TerminationDate.IsZero() {
			return &FieldError{Field: "termination_date", Message: "required"}
		}
		if _, err := rules.ParseTerminationType(string(c.Type)); err != nil {
			return &FieldError{Field: "type", Message: "must be voluntary, involuntary, or retirement"}
		}
		if len(c.Jurisdiction) != 2 {
			return &FieldError{Field: "jurisdiction", Message: "must be a 2-letter state code"}
		}
		if !c.LastWorkDate.IsZero() && c.LastWorkDate.After(c.TerminationDate) {
			return &FieldError{Field: "last_work_date", Message: "cannot be after termination date"}
		}
	case StepPayInputs:
		if err := c.PayInputs().Validate(); err != nil {
			return err
		}
	case StepReview, StepChecklist:
		// Review confirms prior steps; checklist completion is enforced
		// by Submit, not here.
	}
	return nil
}
