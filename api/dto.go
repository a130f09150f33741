/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ENCODING:
  Monetary values accept JSON numbers or strings on input and are always
  emitted as 2-decimal strings, avoiding client-side float drift.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: RuleJSON, reused as the rule upsert body
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/saurellius/finalpay-engine/offboarding"
	"github.com/saurellius/finalpay-engine/payroll"
	"github.com/saurellius/finalpay-engine/rules"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateCaseRequest starts an offboarding case.
type CreateCaseRequest struct {
	EmployeeID string `json:"employee_id"`
}

// UpdateCaseRequest carries wizard field updates. Only the fields owned by
// the case's current step are applied; the rest are rejected.
type UpdateCaseRequest struct {
	// Info step
	TerminationDate *string `json:"termination_date,omitempty"`
	Type            *string `json:"type,omitempty"`
	LastWorkDate    *string `json:"last_work_date,omitempty"`
	Jurisdiction    *string `json:"jurisdiction,omitempty"`

	// Pay inputs step
	PTOHoursRemaining *decimal.Decimal `json:"pto_hours_remaining,omitempty"`
	HourlyRate        *payroll.Money   `json:"hourly_rate,omitempty"`
	RegularPay        *payroll.Money   `json:"regular_pay,omitempty"`
	Reimbursements    *payroll.Money   `json:"reimbursements,omitempty"`
	Garnishments      *payroll.Money   `json:"garnishments,omitempty"`
}

func (r UpdateCaseRequest) hasInfoFields() bool {
	return r.TerminationDate != nil || r.Type != nil || r.LastWorkDate != nil || r.Jurisdiction != nil
}

func (r UpdateCaseRequest) hasPayFields() bool {
	return r.PTOHoursRemaining != nil || r.HourlyRate != nil || r.RegularPay != nil ||
		r.Reimbursements != nil || r.Garnishments != nil
}

// CalculateRequest is the stateless breakdown calculation body.
type CalculateRequest struct {
	Jurisdiction      string          `json:"jurisdiction"`
	TerminationDate   string          `json:"termination_date"`
	Type              string          `json:"type"`
	RegularPay        payroll.Money   `json:"regular_pay"`
	PTOHoursRemaining decimal.Decimal `json:"pto_hours_remaining"`
	HourlyRate        payroll.Money   `json:"hourly_rate"`
	Reimbursements    payroll.Money   `json:"reimbursements"`
	Garnishments      payroll.Money   `json:"garnishments"`
}

// ToggleChecklistRequest flips one offboarding task flag.
type ToggleChecklistRequest struct {
	Flag string `json:"flag"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CalculationDTO is the derived final-pay result.
type CalculationDTO struct {
	Jurisdiction      string                    `json:"jurisdiction"`
	PTOPayoutRequired bool                      `json:"pto_payout_required"`
	DeadlineRule      string                    `json:"deadline_rule"`
	DueDate           string                    `json:"due_date"`
	Breakdown         payroll.FinalPayBreakdown `json:"breakdown"`
}

// CaseDTO represents a termination case in API responses.
type CaseDTO struct {
	ID              string                `json:"id"`
	EmployeeID      string                `json:"employee_id"`
	TerminationDate string                `json:"termination_date,omitempty"`
	Type            string                `json:"type,omitempty"`
	LastWorkDate    string                `json:"last_work_date,omitempty"`
	Jurisdiction    string                `json:"jurisdiction,omitempty"`
	PTOHours        string                `json:"pto_hours_remaining"`
	HourlyRate      payroll.Money         `json:"hourly_rate"`
	RegularPay      payroll.Money         `json:"regular_pay"`
	Reimbursements  payroll.Money         `json:"reimbursements"`
	Garnishments    payroll.Money         `json:"garnishments"`
	Step            string                `json:"step"`
	Checklist       offboarding.Checklist `json:"checklist"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
	SubmittedAt     string                `json:"submitted_at,omitempty"`

	// Derived when the jurisdiction rule is known; omitted otherwise.
	Calculation *CalculationDTO `json:"calculation,omitempty"`
}

// StateRuleDTO represents a jurisdiction rule.
type StateRuleDTO struct {
	Jurisdiction        string `json:"jurisdiction"`
	InvoluntaryDeadline string `json:"involuntary_deadline"`
	VoluntaryDeadline   string `json:"voluntary_deadline"`
	PTOPayoutRequired   bool   `json:"pto_payout_required"`
	Source              string `json:"source"` // "static" or "store"
}

// CaseEventDTO is one audit-trail entry.
type CaseEventDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func ruleDTO(rule rules.StateRule, source string) StateRuleDTO {
	return StateRuleDTO{
		Jurisdiction:        rule.Jurisdiction,
		InvoluntaryDeadline: string(rule.InvoluntaryDeadline),
		VoluntaryDeadline:   string(rule.VoluntaryDeadline),
		PTOPayoutRequired:   rule.PTOPayoutRequired,
		Source:              source,
	}
}
