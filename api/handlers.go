/*
handlers.go - HTTP API handlers for the final-pay engine

PURPOSE:
  Exposes the termination rule engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Terminations:
    POST   /api/terminations/calculate       Stateless breakdown + due date
    POST   /api/terminations/                Create case (draft)
    GET    /api/terminations/                List cases
    GET    /api/terminations/{id}            Case + derived calculation
    PUT    /api/terminations/{id}            Update current-step fields
    POST   /api/terminations/{id}/advance    Wizard forward
    POST   /api/terminations/{id}/back       Wizard backward
    PUT    /api/terminations/{id}/checklist  Toggle a task flag
    POST   /api/terminations/{id}/submit     Finalize (all flags required)
    GET    /api/terminations/{id}/events     Audit trail
    GET    /api/terminations/{id}/statement.pdf  Final pay statement

  Rules:
    GET    /api/terminations/state-rules         List jurisdiction rules
    GET    /api/terminations/state-rules/{state} Single rule
    POST   /api/admin/rules                      Upsert rule definition

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (rules, payroll, offboarding)
  4. Persist + append audit event
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid dates/types
  - 404: Unknown case or jurisdiction
  - 409: Checklist incomplete, submitted-case mutation, bad transition
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - statement.go: PDF rendering
*/
package api

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/saurellius/finalpay-engine/factory"
	"github.com/saurellius/finalpay-engine/offboarding"
	"github.com/saurellius/finalpay-engine/payroll"
	"github.com/saurellius/finalpay-engine/rules"
	"github.com/saurellius/finalpay-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. It also implements
// rules.Provider: stored rule definitions take precedence, with the
// compiled-in table as fallback.
type Handler struct {
	Store    *sqlite.Store
	Factory  *factory.RuleFactory
	Resolver *rules.Resolver
	Tax      payroll.TaxCalculator

	static *rules.StaticProvider

	mu    sync.RWMutex
	cache map[string]rules.StateRule // store-backed rules by jurisdiction
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:    store,
		Factory:  factory.NewRuleFactory(),
		Resolver: rules.NewResolver(),
		Tax:      payroll.NewFlatRateCalculator(),
		static:   rules.NewStaticProvider(),
		cache:    make(map[string]rules.StateRule),
	}
}

var _ rules.Provider = (*Handler)(nil)

// LoadRules loads stored rule definitions into the cache. Invalid rows are
// skipped; the static table still covers their jurisdictions.
func (h *Handler) LoadRules(ctx context.Context) error {
	records, err := h.Store.ListRules(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range records {
		rule, err := h.Factory.ParseRule(r.ConfigJSON)
		if err != nil {
			continue
		}
		h.cache[rule.Jurisdiction] = rule
	}
	return nil
}

// Lookup implements rules.Provider: store-backed definitions first, then
// the compiled-in table. Unknown jurisdictions fail explicitly.
func (h *Handler) Lookup(ctx context.Context, code string) (rules.StateRule, error) {
	normalized := rules.NormalizeCode(code)

	h.mu.RLock()
	rule, ok := h.cache[normalized]
	h.mu.RUnlock()
	if ok {
		return rule, nil
	}
	return h.static.Lookup(ctx, normalized)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate computes a breakdown and due date without persisting anything.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	termDate, err := rules.ParseDate(req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid termination_date", err)
		return
	}
	termType, err := rules.ParseTerminationType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid termination type", err)
		return
	}

	rule, err := h.Lookup(r.Context(), req.Jurisdiction)
	if err != nil {
		writeDomainError(w, "Jurisdiction lookup failed", err)
		return
	}

	in := payroll.Inputs{
		RegularPay:        req.RegularPay,
		PTOHoursRemaining: req.PTOHoursRemaining,
		HourlyRate:        req.HourlyRate,
		Reimbursements:    req.Reimbursements,
		Garnishments:      req.Garnishments,
	}
	calc, err := h.calculation(in, termDate, termType, rule)
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

// calculation builds the derived result shared by several handlers.
func (h *Handler) calculation(in payroll.Inputs, termDate rules.Date, termType rules.TerminationType, rule rules.StateRule) (*CalculationDTO, error) {
	breakdown, err := payroll.Calculate(in, rule, h.Tax)
	if err != nil {
		return nil, err
	}
	dueDate, err := h.Resolver.Resolve(termDate, termType, rule)
	if err != nil {
		return nil, err
	}
	return &CalculationDTO{
		Jurisdiction:      rule.Jurisdiction,
		PTOPayoutRequired: rule.PTOPayoutRequired,
		DeadlineRule:      string(rule.DeadlineFor(termType)),
		DueDate:           dueDate.String(),
		Breakdown:         breakdown,
	}, nil
}

// =============================================================================
// CASE HANDLERS
// =============================================================================

// CreateCase starts a draft case.
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := offboarding.NewCase(uuid.NewString(), req.EmployeeID, time.Now())
	if err != nil {
		writeDomainError(w, "Invalid case", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.SaveCase(ctx, c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create case", err)
		return
	}
	h.appendEvent(ctx, c.ID, "created", "employee "+c.EmployeeID)

	writeJSON(w, http.StatusCreated, h.caseDTO(ctx, c))
}

// ListCases returns all cases.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.Store.ListCases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cases", err)
		return
	}

	dtos := make([]CaseDTO, len(cases))
	for i, c := range cases {
		dtos[i] = h.caseDTO(r.Context(), c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCase returns a single case with its derived calculation.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.caseDTO(r.Context(), c))
}

// UpdateCase applies field updates for the case's current wizard step.
func (h *Handler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	var req UpdateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.applyUpdate(c, req)
	if err != nil {
		writeDomainError(w, "Update rejected", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.UpdateCase(ctx, updated); err != nil {
		writeDomainError(w, "Failed to update case", err)
		return
	}
	h.appendEvent(ctx, c.ID, "updated", "step "+string(c.Step))

	writeJSON(w, http.StatusOK, h.caseDTO(ctx, updated))
}

// applyUpdate enforces step ownership of fields: info fields while the
// wizard is at Info, pay fields at PayInputs. Anything else conflicts.
func (h *Handler) applyUpdate(c offboarding.Case, req UpdateCaseRequest) (offboarding.Case, error) {
	now := time.Now()

	switch c.Step {
	case offboarding.StepInfo:
		if req.hasPayFields() {
			return c, &offboarding.TransitionError{From: c.Step, To: offboarding.StepPayInputs}
		}
		info := offboarding.Info{
			TerminationDate: c.TerminationDate,
			Type:            c.Type,
			LastWorkDate:    c.LastWorkDate,
			Jurisdiction:    c.Jurisdiction,
		}
		if req.TerminationDate != nil {
			d, err := rules.ParseDate(*req.TerminationDate)
			if err != nil {
				return c, err
			}
			info.TerminationDate = d
		}
		if req.Type != nil {
			t, err := rules.ParseTerminationType(*req.Type)
			if err != nil {
				return c, err
			}
			info.Type = t
		}
		if req.LastWorkDate != nil {
			d, err := rules.ParseDate(*req.LastWorkDate)
			if err != nil {
				return c, err
			}
			info.LastWorkDate = d
		}
		if req.Jurisdiction != nil {
			info.Jurisdiction = *req.Jurisdiction
		}
		return c.WithInfo(info, now)

	case offboarding.StepPayInputs:
		if req.hasInfoFields() {
			return c, &offboarding.TransitionError{From: c.Step, To: offboarding.StepInfo}
		}
		in := c.PayInputs()
		if req.PTOHoursRemaining != nil {
			in.PTOHoursRemaining = *req.PTOHoursRemaining
		}
		if req.HourlyRate != nil {
			in.HourlyRate = *req.HourlyRate
		}
		if req.RegularPay != nil {
			in.RegularPay = *req.RegularPay
		}
		if req.Reimbursements != nil {
			in.Reimbursements = *req.Reimbursements
		}
		if req.Garnishments != nil {
			in.Garnishments = *req.Garnishments
		}
		return c.WithPayInputs(in, now)

	case offboarding.StepSubmitted:
		return c, offboarding.ErrCaseSubmitted

	default:
		return c, &offboarding.TransitionError{From: c.Step, To: c.Step}
	}
}

// AdvanceCase moves the wizard one step forward. Advancing out of the
// checklist step is submission.
func (h *Handler) AdvanceCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	updated, err := c.Advance(time.Now())
	if err != nil {
		writeDomainError(w, "Cannot advance", err)
		return
	}

	ctx := r.Context()
	if updated.Submitted() {
		if !h.finalize(w, ctx, updated) {
			return
		}
	} else {
		if err := h.Store.UpdateCase(ctx, updated); err != nil {
			writeDomainError(w, "Failed to update case", err)
			return
		}
		h.appendEvent(ctx, c.ID, "advanced", string(c.Step)+" -> "+string(updated.Step))
	}

	writeJSON(w, http.StatusOK, h.caseDTO(ctx, updated))
}

// BackCase moves the wizard one step backward.
func (h *Handler) BackCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	updated, err := c.Back(time.Now())
	if err != nil {
		writeDomainError(w, "Cannot go back", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.UpdateCase(ctx, updated); err != nil {
		writeDomainError(w, "Failed to update case", err)
		return
	}
	h.appendEvent(ctx, c.ID, "reverted", string(c.Step)+" -> "+string(updated.Step))

	writeJSON(w, http.StatusOK, h.caseDTO(ctx, updated))
}

// ToggleChecklist flips one offboarding task flag.
func (h *Handler) ToggleChecklist(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	var req ToggleChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	flag, err := offboarding.ParseFlag(req.Flag)
	if err != nil {
		writeDomainError(w, "Invalid checklist flag", err)
		return
	}

	updated, err := c.ToggleChecklist(flag, time.Now())
	if err != nil {
		writeDomainError(w, "Cannot toggle checklist", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.UpdateCase(ctx, updated); err != nil {
		writeDomainError(w, "Failed to update case", err)
		return
	}
	h.appendEvent(ctx, c.ID, "checklist_toggled", string(flag))

	writeJSON(w, http.StatusOK, h.caseDTO(ctx, updated))
}

// SubmitCase finalizes the case. All seven checklist flags must be set.
func (h *Handler) SubmitCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	updated, err := c.Submit(time.Now())
	if err != nil {
		writeDomainError(w, "Cannot submit", err)
		return
	}

	ctx := r.Context()
	if !h.finalize(w, ctx, updated) {
		return
	}
	writeJSON(w, http.StatusOK, h.caseDTO(ctx, updated))
}

// finalize computes the authoritative breakdown snapshot and writes the
// terminal state. Reports success; on failure the response is written.
func (h *Handler) finalize(w http.ResponseWriter, ctx context.Context, c offboarding.Case) bool {
	rule, err := h.Lookup(ctx, c.Jurisdiction)
	if err != nil {
		writeDomainError(w, "Jurisdiction lookup failed", err)
		return false
	}
	breakdown, err := payroll.Calculate(c.PayInputs(), rule, h.Tax)
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return false
	}
	dueDate, err := h.Resolver.Resolve(c.TerminationDate, c.Type, rule)
	if err != nil {
		writeDomainError(w, "Due date resolution failed", err)
		return false
	}

	if err := h.Store.FinalizeCase(ctx, c, breakdown, dueDate); err != nil {
		writeDomainError(w, "Failed to finalize case", err)
		return false
	}
	h.appendEvent(ctx, c.ID, "submitted", "net pay "+breakdown.NetPay.String()+", due "+dueDate.String())
	return true
}

// ListCaseEvents returns the audit trail for a case.
func (h *Handler) ListCaseEvents(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	events, err := h.Store.ListEvents(r.Context(), c.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	dtos := make([]CaseEventDTO, len(events))
	for i, e := range events {
		dtos[i] = CaseEventDTO{
			ID:        e.ID,
			Type:      e.Type,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RULE HANDLERS
// =============================================================================

// ListStateRules returns every known jurisdiction rule, store definitions
// overriding the static table.
func (h *Handler) ListStateRules(w http.ResponseWriter, r *http.Request) {
	merged := make(map[string]StateRuleDTO)
	for _, rule := range h.static.All() {
		merged[rule.Jurisdiction] = ruleDTO(rule, "static")
	}
	h.mu.RLock()
	for code, rule := range h.cache {
		merged[code] = ruleDTO(rule, "store")
	}
	h.mu.RUnlock()

	codes := make([]string, 0, len(merged))
	for code := range merged {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]StateRuleDTO, 0, len(codes))
	for _, code := range codes {
		out = append(out, merged[code])
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStateRule returns the rule for one jurisdiction.
func (h *Handler) GetStateRule(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "state")
	rule, err := h.Lookup(r.Context(), code)
	if err != nil {
		writeDomainError(w, "Jurisdiction lookup failed", err)
		return
	}

	source := "static"
	h.mu.RLock()
	if _, ok := h.cache[rule.Jurisdiction]; ok {
		source = "store"
	}
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, ruleDTO(rule, source))
}

// UpsertRule stores a jurisdiction rule definition and refreshes the cache.
func (h *Handler) UpsertRule(w http.ResponseWriter, r *http.Request) {
	var req factory.RuleJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := h.Factory.FromJSON(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule definition", err)
		return
	}
	configJSON, err := h.Factory.ToJSON(rule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode rule", err)
		return
	}

	if err := h.Store.SaveRule(r.Context(), rule.Jurisdiction, configJSON); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rule", err)
		return
	}

	h.mu.Lock()
	h.cache[rule.Jurisdiction] = rule
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, ruleDTO(rule, "store"))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// loadCase fetches the case in the URL, writing the error response itself.
func (h *Handler) loadCase(w http.ResponseWriter, r *http.Request) (offboarding.Case, bool) {
	id := chi.URLParam(r, "id")
	c, err := h.Store.GetCase(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load case", err)
		return offboarding.Case{}, false
	}
	return c, true
}

// caseDTO converts a case, attaching the derived calculation when the
// jurisdiction rule is known and the inputs are valid.
func (h *Handler) caseDTO(ctx context.Context, c offboarding.Case) CaseDTO {
	dto := CaseDTO{
		ID:             c.ID,
		EmployeeID:     c.EmployeeID,
		Type:           string(c.Type),
		Jurisdiction:   c.Jurisdiction,
		PTOHours:       c.PTOHoursRemaining.String(),
		HourlyRate:     c.HourlyRate,
		RegularPay:     c.RegularPay,
		Reimbursements: c.Reimbursements,
		Garnishments:   c.Garnishments,
		Step:           string(c.Step),
		Checklist:      c.Checklist,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
	if !c.TerminationDate.IsZero() {
		dto.TerminationDate = c.TerminationDate.String()
	}
	if !c.LastWorkDate.IsZero() {
		dto.LastWorkDate = c.LastWorkDate.String()
	}
	if !c.SubmittedAt.IsZero() {
		dto.SubmittedAt = c.SubmittedAt.Format(time.RFC3339)
	}

	// Best-effort derived calculation; absent until the case has enough data.
	if rule, err := h.Lookup(ctx, c.Jurisdiction); err == nil && !c.TerminationDate.IsZero() {
		if calc, err := h.calculation(c.PayInputs(), c.TerminationDate, c.Type, rule); err == nil {
			dto.Calculation = calc
		}
	}
	return dto
}

func (h *Handler) appendEvent(ctx context.Context, caseID, eventType, detail string) {
	// Audit failures never fail the request; the case row is authoritative.
	_ = h.Store.AppendEvent(ctx, sqlite.CaseEvent{
		ID:     uuid.NewString(),
		CaseID: caseID,
		Type:   eventType,
		Detail: detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, msg string, err error) {
	writeError(w, statusFor(err), msg, err)
}

func statusFor(err error) int {
	switch {
	case offboarding.IsNotFound(err) || rules.IsNotFound(err):
		return http.StatusNotFound
	case offboarding.IsConflict(err):
		return http.StatusConflict
	case payroll.IsClientError(err) || rules.IsClientError(err) || offboarding.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
